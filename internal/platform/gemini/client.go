package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/coursehub-backend/internal/pkg/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

const (
	RoleUser  = "user"
	RoleModel = "model"

	DefaultModel = "gemini-2.0-flash"
)

// Turn is one role-tagged entry of a conversation history.
type Turn struct {
	Role string
	Text string
}

type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
	RequestTimeout  time.Duration
}

// DefaultConfig carries the tutor's fixed sampling parameters.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:          apiKey,
		Model:           DefaultModel,
		Temperature:     0.9,
		TopK:            1,
		TopP:            1,
		MaxOutputTokens: 200,
		RequestTimeout:  2 * time.Minute,
	}
}

// Observer receives one call per upstream request.
type Observer func(model, endpoint, status string, dur time.Duration)

// Client is the text-generation capability used by the chat relay.
type Client interface {
	// StreamChat replays history, sends message and calls onDelta for every text
	// fragment. It returns the fragments onDelta accepted, which is partial text
	// when err != nil.
	StreamChat(ctx context.Context, history []Turn, message string, onDelta func(delta string) error) (string, error)

	// Generate sends a single prompt without history and returns the whole reply.
	Generate(ctx context.Context, prompt string) (string, error)

	Model() string
	Close() error
}

type client struct {
	log      *logger.Logger
	gc       *genai.Client
	cfg      Config
	observer Observer
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config, observer Observer) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	gc, err := genai.NewClient(ctxutil.Default(ctx), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return &client{
		log:      log.With("client", "GeminiClient", "model", cfg.Model),
		gc:       gc,
		cfg:      cfg,
		observer: observer,
	}, nil
}

func (c *client) Model() string { return c.cfg.Model }

func (c *client) Close() error {
	if c == nil || c.gc == nil {
		return nil
	}
	return c.gc.Close()
}

func (c *client) model() *genai.GenerativeModel {
	m := c.gc.GenerativeModel(c.cfg.Model)
	m.SetTemperature(c.cfg.Temperature)
	m.SetTopK(c.cfg.TopK)
	m.SetTopP(c.cfg.TopP)
	m.SetMaxOutputTokens(c.cfg.MaxOutputTokens)
	m.SafetySettings = relaxedSafety()
	return m
}

func (c *client) StreamChat(ctx context.Context, history []Turn, message string, onDelta func(delta string) error) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	cs := c.model().StartChat()
	cs.History = toContents(history)

	it := cs.SendMessageStream(ctx, genai.Text(message))
	text, aborted, err := drainStream(it.Next, onDelta)
	switch {
	case err == nil:
		c.observe("stream_chat", "ok", start)
		return text, nil
	case aborted:
		c.observe("stream_chat", "aborted", start)
		return text, err
	default:
		c.observe("stream_chat", "error", start)
		c.log.Warn("gemini stream failed", "error", err, "received_chars", len(text))
		return text, Classify(err)
	}
}

// drainStream feeds every non-empty fragment to onDelta and returns only the
// text onDelta accepted. aborted reports that err came from onDelta.
func drainStream(next func() (*genai.GenerateContentResponse, error), onDelta func(string) error) (text string, aborted bool, err error) {
	var sb strings.Builder
	for {
		resp, err := next()
		if errors.Is(err, iterator.Done) {
			return sb.String(), false, nil
		}
		if err != nil {
			return sb.String(), false, err
		}
		delta := responseText(resp)
		if delta == "" {
			continue
		}
		if onDelta != nil {
			if cbErr := onDelta(delta); cbErr != nil {
				return sb.String(), true, cbErr
			}
		}
		sb.WriteString(delta)
	}
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := c.model().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.observe("generate", "error", start)
		c.log.Warn("gemini generate failed", "error", err)
		return "", Classify(err)
	}
	c.observe("generate", "ok", start)
	return responseText(resp), nil
}

func (c *client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = ctxutil.Default(ctx)
	if c.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

func (c *client) observe(endpoint, status string, start time.Time) {
	if c.observer != nil {
		c.observer(c.cfg.Model, endpoint, status, time.Since(start))
	}
}

func relaxedSafety() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	out := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		out = append(out, &genai.SafetySetting{Category: cat, Threshold: genai.HarmBlockNone})
	}
	return out
}

func toContents(history []Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		out = append(out, &genai.Content{
			Role:  t.Role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return sb.String()
}
