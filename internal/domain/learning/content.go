package learning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/datatypes"

	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
)

type LessonType string

const (
	LessonTypeVideo LessonType = "video"
	LessonTypeText  LessonType = "text"
	LessonTypeQuiz  LessonType = "quiz"
)

func (t LessonType) Valid() bool {
	switch t {
	case LessonTypeVideo, LessonTypeText, LessonTypeQuiz:
		return true
	default:
		return false
	}
}

// LessonContent is the typed payload of a lesson. Exactly one concrete type
// exists per LessonType.
type LessonContent interface {
	Kind() LessonType
	Validate() error
}

type VideoContent struct {
	URL string `json:"url"`
}

type TextContent struct {
	HTML string `json:"html"`
}

type QuizContent struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

func (VideoContent) Kind() LessonType { return LessonTypeVideo }
func (TextContent) Kind() LessonType  { return LessonTypeText }
func (QuizContent) Kind() LessonType  { return LessonTypeQuiz }

func (c VideoContent) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalidContent("video url must be an absolute http(s) url")
	}
	return nil
}

func (c TextContent) Validate() error {
	if strings.TrimSpace(c.HTML) == "" {
		return invalidContent("text html is empty")
	}
	return nil
}

func (c QuizContent) Validate() error {
	if strings.TrimSpace(c.Question) == "" {
		return invalidContent("quiz question is empty")
	}
	if len(c.Options) < 2 {
		return invalidContent("quiz needs at least two options")
	}
	seen := make(map[string]struct{}, len(c.Options))
	for _, opt := range c.Options {
		if strings.TrimSpace(opt) == "" {
			return invalidContent("quiz option is empty")
		}
		if _, dup := seen[opt]; dup {
			return invalidContent(fmt.Sprintf("quiz option %q is duplicated", opt))
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[c.Answer]; !ok {
		return invalidContent("quiz answer must match one of the options")
	}
	return nil
}

// Check reports whether selected is the correct quiz answer.
func (c QuizContent) Check(selected string) bool {
	return selected == c.Answer
}

// ParseLessonContent decodes raw into the variant for kind and validates it.
// Besides the object form, a bare JSON string is accepted: the url of a video,
// the html of a text lesson, or a serialized quiz object.
func ParseLessonContent(kind LessonType, raw []byte) (LessonContent, error) {
	if !kind.Valid() {
		return nil, invalidContent(fmt.Sprintf("unknown lesson type %q", kind))
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, invalidContent("content is required")
	}

	var bare string
	isString := raw[0] == '"'
	if isString {
		if err := json.Unmarshal(raw, &bare); err != nil {
			return nil, invalidContent("content is not valid json")
		}
	}

	var content LessonContent
	switch kind {
	case LessonTypeVideo:
		var v VideoContent
		if isString {
			v.URL = bare
		} else if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalidContent("video content must be {url}")
		}
		content = v
	case LessonTypeText:
		var v TextContent
		if isString {
			v.HTML = bare
		} else if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalidContent("text content must be {html}")
		}
		content = v
	case LessonTypeQuiz:
		var v QuizContent
		src := raw
		if isString {
			src = []byte(bare)
		}
		if err := json.Unmarshal(src, &v); err != nil {
			return nil, invalidContent("quiz content must be {question, options, answer}")
		}
		content = v
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return content, nil
}

// EncodeLessonContent serializes a validated variant for storage.
func EncodeLessonContent(c LessonContent) (datatypes.JSON, error) {
	if c == nil {
		return nil, invalidContent("content is required")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode lesson content: %w", err)
	}
	return datatypes.JSON(b), nil
}

func invalidContent(msg string) error {
	return fmt.Errorf("%w: %s", pkgerrors.ErrInvalidArgument, msg)
}
