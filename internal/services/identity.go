package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/coursehub-backend/internal/data/cache"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/requestdata"
)

// AccessClaims is the payload of an HS256 access token.
type AccessClaims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (ti *TokenIssuer) TTL() time.Duration { return ti.ttl }

func (ti *TokenIssuer) Issue(user *types.User) (string, error) {
	now := ti.now()
	claims := AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

func (ti *TokenIssuer) Parse(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("token carries no user")
	}
	return claims, nil
}

// IdentityResolver turns request credentials into RequestData. A bearer token
// takes precedence over the session cookie when both are supplied.
type IdentityResolver interface {
	Resolve(ctx context.Context, bearer, sessionToken string) (*requestdata.RequestData, error)
}

type identityResolver struct {
	log      *logger.Logger
	tokens   *TokenIssuer
	sessions cache.SessionStore
	userRepo repos.UserRepo
}

func NewIdentityResolver(log *logger.Logger, tokens *TokenIssuer, sessions cache.SessionStore, userRepo repos.UserRepo) IdentityResolver {
	return &identityResolver{
		log:      log.With("service", "IdentityResolver"),
		tokens:   tokens,
		sessions: sessions,
		userRepo: userRepo,
	}
}

func (ir *identityResolver) Resolve(ctx context.Context, bearer, sessionToken string) (*requestdata.RequestData, error) {
	bearer = strings.TrimSpace(bearer)
	sessionToken = strings.TrimSpace(sessionToken)

	if bearer != "" {
		claims, err := ir.tokens.Parse(bearer)
		if err != nil {
			ir.log.Debug("Bearer token rejected", "error", err)
			return nil, apierr.Unauthorized("invalid or expired token")
		}
		return &requestdata.RequestData{
			UserID:      claims.UserID,
			Username:    claims.Username,
			Email:       claims.Email,
			Scheme:      requestdata.SchemeBearer,
			TokenString: bearer,
		}, nil
	}

	if sessionToken == "" {
		return nil, apierr.Unauthorized("missing credentials")
	}
	userID, err := ir.sessions.Get(ctx, sessionToken)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.Unauthorized("session expired")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	user, err := ir.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.Unauthorized("session user no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return &requestdata.RequestData{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Scheme:    requestdata.SchemeSession,
		SessionID: sessionToken,
	}, nil
}
