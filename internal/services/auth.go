package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/coursehub-backend/internal/data/cache"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/requestdata"
)

const passwordHashCost = 10

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
	SessionID   string
	User        *types.User
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*types.User, error)
	SessionTTL() time.Duration
}

type authService struct {
	log        *logger.Logger
	userRepo   repos.UserRepo
	sessions   cache.SessionStore
	tokens     *TokenIssuer
	sessionTTL time.Duration
}

func NewAuthService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	sessions cache.SessionStore,
	tokens *TokenIssuer,
	sessionTTL time.Duration,
) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &authService{
		log:        log.With("service", "AuthService"),
		userRepo:   userRepo,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

func (as *authService) SessionTTL() time.Duration { return as.sessionTTL }

func (as *authService) Signup(ctx context.Context, in SignupInput) (*types.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, apierr.Validation("missing_fields", "username, email and password are required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	exists, err := as.userRepo.ExistsByUsernameOrEmail(dbc, username, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("user_exists", "username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	created, err := as.userRepo.Create(dbc, &types.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	})
	if errors.Is(err, pkgerrors.ErrConflict) {
		// Lost a race with a concurrent signup for the same name.
		return nil, apierr.Conflict("user_exists", "username or email already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("User signed up", "user_id", created.ID)
	return created, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierr.Validation("missing_fields", "email and password are required")
	}
	user, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("invalid credentials")
	}

	token, err := as.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	sessionID := uuid.New().String()
	if err := as.sessions.Save(ctx, sessionID, user.ID, as.sessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	as.log.Info("User logged in", "user_id", user.ID, "session_id", sessionID)
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(as.tokens.TTL().Seconds()),
		SessionID:   sessionID,
		User:        user,
	}, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return apierr.Unauthorized("not signed in")
	}
	if rd.SessionID == "" {
		// Bearer-only clients hold no server-side state.
		return nil
	}
	if err := as.sessions.Delete(ctx, rd.SessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (as *authService) Me(ctx context.Context) (*types.User, error) {
	userID := requestdata.UserID(ctx)
	if userID == 0 {
		return nil, apierr.Unauthorized("not signed in")
	}
	user, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// normalizeEmail accepts a bare address only. Display-name forms such as
// "Ada <ada@example.com>" are rejected so one mailbox maps to one stored value.
func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil || !strings.EqualFold(addr.Address, raw) {
		return "", apierr.Validation("invalid_email", "email is not a valid address")
	}
	return strings.ToLower(addr.Address), nil
}
