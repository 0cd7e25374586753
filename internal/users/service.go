package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/internal/auth"
	"knowledge-network/internal/rbac"
	"knowledge-network/pkg/logger"
	"knowledge-network/pkg/utils"

	"github.com/google/uuid"
)

// ScoreOpener creates the zeroed score record of a new user.
type ScoreOpener interface {
	Open(ctx context.Context, userID string) error
}

// TokenIssuer is implemented by *auth.Manager.
type TokenIssuer interface {
	IssuePair(now time.Time, id auth.Identity) (auth.TokenPair, error)
	Verify(token string, expected auth.TokenType, now time.Time) (auth.Claims, error)
}

type Service struct {
	repo   Repository
	tx     utils.Transactor
	scores ScoreOpener
	tokens TokenIssuer
	clock  func() time.Time
}

func NewService(repo Repository, tx utils.Transactor, scores ScoreOpener, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tx: tx, scores: scores, tokens: tokens, clock: time.Now}
}

// Signup registers a user and opens its score record in one unit of work.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	u, err := s.newUser(in)
	if err != nil {
		return Session{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, apperr.Validationf("password cannot be hashed")
	}
	u.PasswordHash = hash

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, u); err != nil {
			return err
		}
		return s.scores.Open(ctx, u.ID)
	})
	if err != nil {
		return Session{}, apperr.Storage(err)
	}

	logger.From(ctx).Info("user signed up", "user_id", u.ID, "role", u.Role)
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, apperr.Validationf("email and password are required")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Session{}, apperr.Unauthorizedf("invalid credentials")
		}
		return Session{}, apperr.Storage(err)
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, in.Password) {
		return Session{}, apperr.Unauthorizedf("invalid credentials")
	}
	return s.session(u)
}

// Refresh exchanges a refresh token for a new pair carrying the user's current role.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return Session{}, apperr.Validationf("refresh token is required")
	}
	claims, err := s.tokens.Verify(refreshToken, auth.TokenTypeRefresh, s.clock())
	if err != nil {
		return Session{}, apperr.Unauthorizedf("invalid refresh token")
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Session{}, apperr.Unauthorizedf("invalid refresh token")
		}
		return Session{}, apperr.Storage(err)
	}
	if !u.IsActive {
		return Session{}, apperr.Unauthorizedf("account disabled")
	}
	return s.session(u)
}

func (s *Service) Me(ctx context.Context, id auth.Identity) (User, error) {
	return s.Get(ctx, id.ID)
}

func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	if userID == "" {
		return User{}, apperr.Validationf("user id required")
	}
	u, err := s.repo.GetByID(ctx, userID)
	return u, apperr.Storage(err)
}

// List returns active users in signup order.
func (s *Service) List(ctx context.Context) ([]User, error) {
	out, err := s.repo.List(ctx)
	return out, apperr.Storage(err)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	return n, apperr.Storage(err)
}

func (s *Service) session(u User) (Session, error) {
	pair, err := s.tokens.IssuePair(s.clock(), u.Identity())
	if err != nil {
		return Session{}, apperr.Storage(err)
	}
	return Session{User: u, TokenPair: pair}, nil
}

func (s *Service) newUser(in SignupInput) (User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return User{}, apperr.Validationf("name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, apperr.Validationf("email %q is not valid", in.Email)
	}
	if len(in.Password) < MinPasswordLen {
		return User{}, apperr.Validationf("password must be at least %d characters", MinPasswordLen)
	}

	role := strings.TrimSpace(in.Role)
	switch {
	case role == "":
		role = rbac.DefaultRole
	case rbac.IsAdmin(role):
		return User{}, apperr.Validationf("role %q cannot be self-assigned", role)
	case !rbac.IsKnownRole(role):
		return User{}, apperr.Validationf("unknown role %q", role)
	}

	now := s.clock().UTC()
	return User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      role,
		Expertise: normalizeExpertise(in.Expertise),
		Region:    strings.TrimSpace(in.Region),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func normalizeExpertise(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
