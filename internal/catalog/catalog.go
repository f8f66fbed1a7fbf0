// Package catalog loads course catalogs from YAML and seeds them into the
// database.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/coursehub-backend/internal/domain"
)

//go:embed sample.yaml
var sampleCatalog []byte

var (
	ErrEmptyCatalog   = errors.New("catalog has no courses")
	ErrDuplicateTitle = errors.New("duplicate course title")
)

type Catalog struct {
	Courses []Course `yaml:"courses"`
}

type Course struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Instructor  string   `yaml:"instructor,omitempty"`
	Duration    string   `yaml:"duration,omitempty"`
	Price       float64  `yaml:"price"`
	ImageURL    string   `yaml:"image_url,omitempty"`
	Lessons     []Lesson `yaml:"lessons"`
}

// Lesson content is either a mapping ({url}, {html}, {question, options,
// answer}) or a bare string, the same shapes the HTTP API accepts.
type Lesson struct {
	Title      string `yaml:"title"`
	Type       string `yaml:"type"`
	Content    any    `yaml:"content"`
	OrderIndex *int   `yaml:"order_index,omitempty"`
}

func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Sample returns the catalog bundled with the binary.
func Sample() (*Catalog, error) {
	return Parse(strings.NewReader(string(sampleCatalog)))
}

// Validate checks every course and lesson and reports the first problem
// with its position in the file.
func (c *Catalog) Validate() error {
	if c == nil || len(c.Courses) == 0 {
		return ErrEmptyCatalog
	}
	titles := make(map[string]struct{}, len(c.Courses))
	for i := range c.Courses {
		course := &c.Courses[i]
		title := strings.TrimSpace(course.Title)
		if title == "" {
			return fmt.Errorf("courses[%d]: title is required", i)
		}
		key := strings.ToLower(title)
		if _, dup := titles[key]; dup {
			return fmt.Errorf("courses[%d]: %w %q", i, ErrDuplicateTitle, title)
		}
		titles[key] = struct{}{}
		if course.Price < 0 || math.IsNaN(course.Price) || math.IsInf(course.Price, 0) {
			return fmt.Errorf("courses[%d]: price must be a non-negative number", i)
		}
		if _, err := course.lessonModels(0); err != nil {
			return fmt.Errorf("courses[%d] %q: %w", i, title, err)
		}
	}
	return nil
}

// lessonModels converts the YAML lessons into validated rows. Lessons
// without an explicit order_index take their position in the list.
func (c *Course) lessonModels(courseID uint) ([]*types.Lesson, error) {
	out := make([]*types.Lesson, 0, len(c.Lessons))
	seenOrder := make(map[int]struct{}, len(c.Lessons))
	for j, l := range c.Lessons {
		title := strings.TrimSpace(l.Title)
		if title == "" {
			return nil, fmt.Errorf("lessons[%d]: title is required", j)
		}
		kind := types.LessonType(strings.TrimSpace(l.Type))
		raw, err := json.Marshal(l.Content)
		if err != nil {
			return nil, fmt.Errorf("lessons[%d]: content is not representable as json: %w", j, err)
		}
		content, err := types.ParseLessonContent(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("lessons[%d]: %w", j, err)
		}
		encoded, err := types.EncodeLessonContent(content)
		if err != nil {
			return nil, fmt.Errorf("lessons[%d]: %w", j, err)
		}
		order := j
		if l.OrderIndex != nil {
			order = *l.OrderIndex
		}
		if _, dup := seenOrder[order]; dup {
			return nil, fmt.Errorf("lessons[%d]: order_index %d is used twice", j, order)
		}
		seenOrder[order] = struct{}{}
		out = append(out, &types.Lesson{
			CourseID:   courseID,
			Title:      title,
			Type:       kind,
			Content:    encoded,
			OrderIndex: order,
		})
	}
	return out, nil
}
