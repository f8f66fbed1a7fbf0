package user

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, &types.User{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("Create: expected autoincrement id")
	}

	got, err := repo.GetByID(dbc, created.ID)
	if err != nil || got.Username != "ada" {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}

	byEmail, err := repo.GetByEmail(dbc, "ada@example.com")
	if err != nil || byEmail.ID != created.ID {
		t.Fatalf("GetByEmail: err=%v got=%+v", err, byEmail)
	}

	if _, err := repo.GetByEmail(dbc, "nobody@example.com"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("GetByEmail missing: expected ErrNotFound, got %v", err)
	}

	exists, err := repo.ExistsByUsernameOrEmail(dbc, "ada", "other@example.com")
	if err != nil || !exists {
		t.Fatalf("ExistsByUsernameOrEmail by username: exists=%v err=%v", exists, err)
	}
	exists, err = repo.ExistsByUsernameOrEmail(dbc, "grace", "grace@example.com")
	if err != nil || exists {
		t.Fatalf("ExistsByUsernameOrEmail fresh: exists=%v err=%v", exists, err)
	}
}

func TestUserRepoCreateDuplicateIsConflict(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	if _, err := repo.Create(dbc, &types.User{Username: "ada", Email: "ada@example.com", Password: "x"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Savepoint so the failed insert does not poison the Postgres transaction.
	tx.SavePoint("dup")
	_, err := repo.Create(dbc, &types.User{Username: "ada", Email: "ada2@example.com", Password: "y"})
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	tx.RollbackTo("dup")

	original, err := repo.GetByEmail(dbc, "ada@example.com")
	if err != nil || original.Password != "x" {
		t.Fatalf("original row changed: err=%v row=%+v", err, original)
	}
}
