package chat

import (
	"context"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
)

func TestChatMessageRepoListsOldestFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewChatMessageRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "chatter")
	other := testutil.SeedUser(t, ctx, tx, "lurker")

	turns := []*types.ChatMessage{
		{UserID: u.ID, Sender: types.SenderUser, Text: "hi"},
		{UserID: other.ID, Sender: types.SenderUser, Text: "not mine"},
		{UserID: u.ID, Sender: types.SenderAI, Text: "hello"},
		{UserID: u.ID, Sender: types.SenderUser, Text: "explain goroutines"},
		{UserID: u.ID, Sender: types.SenderAI, Text: "they are", Incomplete: true},
	}
	for _, m := range turns {
		if _, err := repo.Create(dbc, m); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, err := repo.ListByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	want := []string{"hi", "hello", "explain goroutines", "they are"}
	if len(rows) != len(want) {
		t.Fatalf("ListByUser: len=%d want=%d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].Text != w {
			t.Fatalf("ListByUser[%d]: got=%q want=%q", i, rows[i].Text, w)
		}
		if i > 0 && rows[i].CreatedAt.Before(rows[i-1].CreatedAt) {
			t.Fatalf("ListByUser not ascending at %d", i)
		}
	}
	if !rows[3].Incomplete {
		t.Fatalf("incomplete flag lost")
	}
}
