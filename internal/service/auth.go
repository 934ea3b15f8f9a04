package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ketball/backend/internal/auth"
	"github.com/ketball/backend/internal/domain"
	"github.com/ketball/backend/internal/guard"
	"github.com/ketball/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles player registration and login.
type AuthService struct {
	pool    *pgxpool.Pool
	users   repository.AuthUserRepository
	players repository.PlayerRepository
	jwtMgr  *auth.JWTManager
	limiter *guard.RateLimiter
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	pool *pgxpool.Pool,
	users repository.AuthUserRepository,
	players repository.PlayerRepository,
	jwtMgr *auth.JWTManager,
	limiter *guard.RateLimiter,
) *AuthService {
	return &AuthService{
		pool:    pool,
		users:   users,
		players: players,
		jwtMgr:  jwtMgr,
		limiter: limiter,
	}
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token  string         `json:"token"`
	Player *domain.Player `json:"player"`
}

// Register creates a new account and its player profile within a single
// transaction.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	user := &domain.AuthUser{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, tx, user); err != nil {
		return nil, domain.ErrInternal("create auth user", err)
	}

	player := NewPlayerProfile(user.ID, user.Email)
	if err := s.players.Create(ctx, tx, player); err != nil {
		return nil, domain.ErrInternal("create player", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	token, err := s.jwtMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, Player: player}, nil
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a player and returns a JWT. Attempts are rate
// limited per email to slow credential stuffing.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if !s.limiter.Allow(input.Email) {
		return nil, domain.ErrRateLimited("too many login attempts, try again later")
	}

	user, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	player, err := s.players.FindByUserID(ctx, s.pool, user.ID)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrInternal("player record missing", fmt.Errorf("no players row for user %s", user.ID))
	}

	token, err := s.jwtMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, Player: player}, nil
}

// NewPlayerProfile builds a fresh player for the given identity: the
// display name defaults to the email's local part and the avatar color
// is drawn at random from the palette.
func NewPlayerProfile(userID uuid.UUID, email string) *domain.Player {
	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	if len(username) > 24 {
		username = username[:24]
	}
	if len(username) < 2 {
		username = "baller"
	}

	return &domain.Player{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    username,
		AvatarColor: domain.AvatarColors[rand.Intn(len(domain.AvatarColors))],
		CreatedAt:   time.Now(),
	}
}
