package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, ok := parseID(c.Param(name))
	if !ok {
		return 0, apierr.Validation("invalid_id", name+" must be a positive integer")
	}
	return id, nil
}

// flexID accepts an id sent either as a JSON number or a numeric string.
type flexID uint

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return apierr.Validation("invalid_id", "id must be a positive integer")
	}
	*f = flexID(n)
	return nil
}
