package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/platform/gemini"
)

func TestSendChatTurnStreamsAndPersists(t *testing.T) {
	env := newTestEnv(t)
	bg := context.Background()
	u := testutil.SeedUser(t, bg, env.db, "ada")
	gen := &fakeGemini{fragments: []string{"Go ", "is ", "fun."}, failAfter: -1}
	svc := NewChatService(env.log, env.chatRepo, gen)

	history := []ChatTurn{
		{Sender: types.SenderUser, Text: "hi"},
		{Sender: types.SenderAI, Text: "hello"},
		{Sender: types.SenderUser, Text: "tell me about go"},
	}
	var relayed strings.Builder
	res, err := svc.SendChatTurn(asUser(bg, u.ID), history, func(f string) error {
		relayed.WriteString(f)
		return nil
	})
	if err != nil {
		t.Fatalf("SendChatTurn: %v", err)
	}
	if relayed.String() != "Go is fun." {
		t.Fatalf("relayed text mismatch: %q", relayed.String())
	}
	if res.Reply == nil || res.Reply.Text != relayed.String() || res.Reply.Incomplete {
		t.Fatalf("persisted reply mismatch: %+v", res.Reply)
	}

	if gen.gotMessage != "tell me about go" {
		t.Fatalf("newest turn not sent as message: %q", gen.gotMessage)
	}
	if len(gen.gotHistory) != 2 || gen.gotHistory[0].Role != gemini.RoleUser || gen.gotHistory[1].Role != gemini.RoleModel {
		t.Fatalf("history roles not mapped: %+v", gen.gotHistory)
	}

	msgs, err := svc.ListMessages(asUser(bg, u.ID))
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected user and ai rows, got %d", len(msgs))
	}
	if msgs[0].Sender != types.SenderUser || msgs[1].Sender != types.SenderAI {
		t.Fatalf("unexpected order: %s, %s", msgs[0].Sender, msgs[1].Sender)
	}
}

func TestSendChatTurnFailsBeforeFirstFragment(t *testing.T) {
	env := newTestEnv(t)
	bg := context.Background()
	u := testutil.SeedUser(t, bg, env.db, "ada")
	gen := &fakeGemini{fragments: []string{"never"}, failAfter: 0, failErr: errFakeUpstream}
	svc := NewChatService(env.log, env.chatRepo, gen)

	res, err := svc.SendChatTurn(asUser(bg, u.ID), []ChatTurn{{Sender: types.SenderUser, Text: "hi"}}, func(string) error { return nil })
	requireStatus(t, err, http.StatusServiceUnavailable)
	if !errors.Is(err, pkgerrors.ErrUnavailable) || !errors.Is(err, errFakeUpstream) {
		t.Fatalf("error chain lost: %v", err)
	}
	if res == nil || res.Streamed || res.Reply != nil {
		t.Fatalf("no reply should exist: %+v", res)
	}

	msgs, err := env.chatRepo.ListByUser(dbctx.Context{Ctx: bg}, u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Sender != types.SenderUser {
		t.Fatalf("only the user turn should be stored, got %d rows", len(msgs))
	}
}

func TestSendChatTurnMidStreamFailureKeepsPartial(t *testing.T) {
	env := newTestEnv(t)
	bg := context.Background()
	u := testutil.SeedUser(t, bg, env.db, "ada")
	gen := &fakeGemini{fragments: []string{"partial ", "answer", "lost"}, failAfter: 2, failErr: errFakeUpstream}
	svc := NewChatService(env.log, env.chatRepo, gen)

	res, err := svc.SendChatTurn(asUser(bg, u.ID), []ChatTurn{{Sender: types.SenderUser, Text: "hi"}}, func(string) error { return nil })
	if !errors.Is(err, errFakeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !res.Streamed || res.Reply == nil {
		t.Fatalf("partial reply should be persisted: %+v", res)
	}
	if res.Reply.Text != "partial answer" || !res.Reply.Incomplete {
		t.Fatalf("partial reply mismatch: %+v", res.Reply)
	}
}

func TestSendChatTurnClientWriteFailure(t *testing.T) {
	env := newTestEnv(t)
	bg := context.Background()
	u := testutil.SeedUser(t, bg, env.db, "ada")
	gen := &fakeGemini{fragments: []string{"a", "b"}, failAfter: -1}
	svc := NewChatService(env.log, env.chatRepo, gen)

	writeErr := errors.New("broken pipe")
	res, err := svc.SendChatTurn(asUser(bg, u.ID), []ChatTurn{{Sender: types.SenderUser, Text: "hi"}}, func(string) error { return writeErr })
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
	if res.Reply == nil || res.Reply.Text != "a" || !res.Reply.Incomplete {
		t.Fatalf("reply should hold what was produced: %+v", res.Reply)
	}
}

func TestSendChatTurnValidation(t *testing.T) {
	env := newTestEnv(t)
	bg := context.Background()
	u := testutil.SeedUser(t, bg, env.db, "ada")
	svc := NewChatService(env.log, env.chatRepo, &fakeGemini{failAfter: -1})
	ctx := asUser(bg, u.ID)

	_, err := svc.SendChatTurn(bg, []ChatTurn{{Sender: types.SenderUser, Text: "hi"}}, nil)
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = svc.SendChatTurn(ctx, nil, nil)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.SendChatTurn(ctx, []ChatTurn{{Sender: types.SenderAI, Text: "hi"}}, nil)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.SendChatTurn(ctx, []ChatTurn{{Sender: "bot", Text: "x"}, {Sender: types.SenderUser, Text: "hi"}}, nil)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSendChatTurnWithoutGenerator(t *testing.T) {
	env := newTestEnv(t)
	bg := context.Background()
	u := testutil.SeedUser(t, bg, env.db, "ada")
	svc := NewChatService(env.log, env.chatRepo, nil)

	_, err := svc.SendChatTurn(asUser(bg, u.ID), []ChatTurn{{Sender: types.SenderUser, Text: "hi"}}, nil)
	requireStatus(t, err, http.StatusServiceUnavailable)
}

func TestGenerateSingleReply(t *testing.T) {
	env := newTestEnv(t)
	bg := context.Background()
	ctx := asUser(bg, 1)

	svc := NewChatService(env.log, env.chatRepo, &fakeGemini{reply: "42"})
	got, err := svc.GenerateSingleReply(ctx, "meaning of life?")
	if err != nil || got != "42" {
		t.Fatalf("GenerateSingleReply: got=%q err=%v", got, err)
	}

	_, err = svc.GenerateSingleReply(ctx, "  ")
	requireStatus(t, err, http.StatusBadRequest)

	failing := NewChatService(env.log, env.chatRepo, &fakeGemini{failErr: errFakeUpstream})
	_, err = failing.GenerateSingleReply(ctx, "hi")
	requireStatus(t, err, http.StatusServiceUnavailable)

	var n int64
	env.db.Model(&types.ChatMessage{}).Count(&n)
	if n != 0 {
		t.Fatalf("single replies must not be persisted, found %d rows", n)
	}
}
