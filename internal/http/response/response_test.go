package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

func TestRespondAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", apierr.Validation("missing_fields", "title is required"), http.StatusBadRequest, "missing_fields", "invalid argument: title is required"},
		{"not found", apierr.NotFound("course_not_found", "course not found"), http.StatusNotFound, "course_not_found", "not found: course not found"},
		{"internal hides detail", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal", "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondAPIError(c, tc.err)

			if w.Code != tc.status {
				t.Fatalf("status: got=%d want=%d", w.Code, tc.status)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code || env.Error.Message != tc.message {
				t.Fatalf("envelope: got=%+v", env.Error)
			}
		})
	}
}
