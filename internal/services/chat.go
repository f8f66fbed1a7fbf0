package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/gemini"
	"github.com/yungbote/coursehub-backend/internal/requestdata"
)

var errGenerationDisabled = errors.New("text generation is not configured")

// ChatTurn is one entry of the conversation the client sends with each request.
type ChatTurn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatResult describes how a relayed turn ended. Streamed reports whether any
// fragment reached the caller; Reply is nil when nothing could be persisted.
type ChatResult struct {
	UserMessage *types.ChatMessage
	Reply       *types.ChatMessage
	Streamed    bool
}

type ChatService interface {
	// SendChatTurn persists the newest user turn, relays reply fragments to
	// onFragment as they arrive and persists the reply. A failure before the
	// first fragment returns an Unavailable error and no reply row. A failure
	// after it persists the partial reply marked incomplete and returns the error.
	SendChatTurn(ctx context.Context, history []ChatTurn, onFragment func(fragment string) error) (*ChatResult, error)
	GenerateSingleReply(ctx context.Context, message string) (string, error)
	ListMessages(ctx context.Context) ([]*types.ChatMessage, error)
}

type chatService struct {
	log         *logger.Logger
	messageRepo repos.ChatMessageRepo
	gen         gemini.Client
}

// NewChatService accepts a nil client; generation then fails as Unavailable.
func NewChatService(log *logger.Logger, messageRepo repos.ChatMessageRepo, gen gemini.Client) ChatService {
	return &chatService{
		log:         log.With("service", "ChatService"),
		messageRepo: messageRepo,
		gen:         gen,
	}
}

func (cs *chatService) SendChatTurn(ctx context.Context, history []ChatTurn, onFragment func(fragment string) error) (*ChatResult, error) {
	userID := requestdata.UserID(ctx)
	if userID == 0 {
		return nil, apierr.Unauthorized("not signed in")
	}
	if len(history) == 0 {
		return nil, apierr.Validation("missing_messages", "messages must not be empty")
	}
	latest := history[len(history)-1]
	if latest.Sender != types.SenderUser || strings.TrimSpace(latest.Text) == "" {
		return nil, apierr.Validation("invalid_messages", "the last message must be a non-empty user message")
	}
	prior, err := toGeminiTurns(history[:len(history)-1])
	if err != nil {
		return nil, err
	}

	userMsg, err := cs.messageRepo.Create(dbctx.Context{Ctx: ctx}, &types.ChatMessage{
		UserID: userID,
		Sender: types.SenderUser,
		Text:   latest.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	res := &ChatResult{UserMessage: userMsg}

	if cs.gen == nil {
		return res, apierr.Unavailable("generation_unavailable", errGenerationDisabled)
	}

	text, genErr := cs.gen.StreamChat(ctx, prior, latest.Text, func(delta string) error {
		res.Streamed = true
		if onFragment == nil {
			return nil
		}
		return onFragment(delta)
	})

	if genErr != nil && !res.Streamed {
		cs.log.Warn("chat generation failed before first fragment", "user_id", userID, "error", genErr)
		return res, apierr.Unavailable("generation_unavailable", genErr)
	}

	reply := &types.ChatMessage{
		UserID:     userID,
		Sender:     types.SenderAI,
		Text:       text,
		Incomplete: genErr != nil,
	}
	// The request context may already be cancelled by a client disconnect.
	persistCtx := context.WithoutCancel(ctx)
	saved, err := cs.messageRepo.Create(dbctx.Context{Ctx: persistCtx}, reply)
	if err != nil {
		return res, fmt.Errorf("persist ai message: %w", err)
	}
	res.Reply = saved

	if genErr != nil {
		cs.log.Warn("chat stream ended early; partial reply kept",
			"user_id", userID,
			"message_id", saved.ID,
			"chars", len(text),
			"error", genErr,
		)
		return res, genErr
	}
	return res, nil
}

func (cs *chatService) GenerateSingleReply(ctx context.Context, message string) (string, error) {
	if requestdata.UserID(ctx) == 0 {
		return "", apierr.Unauthorized("not signed in")
	}
	if strings.TrimSpace(message) == "" {
		return "", apierr.Validation("missing_fields", "message is required")
	}
	if cs.gen == nil {
		return "", apierr.Unavailable("generation_unavailable", errGenerationDisabled)
	}
	text, err := cs.gen.Generate(ctx, message)
	if err != nil {
		return "", apierr.Unavailable("generation_unavailable", err)
	}
	return text, nil
}

func (cs *chatService) ListMessages(ctx context.Context) ([]*types.ChatMessage, error) {
	userID := requestdata.UserID(ctx)
	if userID == 0 {
		return nil, apierr.Unauthorized("not signed in")
	}
	return cs.messageRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}

func toGeminiTurns(turns []ChatTurn) ([]gemini.Turn, error) {
	out := make([]gemini.Turn, 0, len(turns))
	for i, t := range turns {
		var role string
		switch t.Sender {
		case types.SenderUser:
			role = gemini.RoleUser
		case types.SenderAI:
			role = gemini.RoleModel
		default:
			return nil, apierr.Validation("invalid_messages", fmt.Sprintf("messages[%d]: unknown sender %q", i, t.Sender))
		}
		out = append(out, gemini.Turn{Role: role, Text: t.Text})
	}
	return out, nil
}
