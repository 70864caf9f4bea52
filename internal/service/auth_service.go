package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/alexconectado/pdv-caixa/internal/config"
	"github.com/alexconectado/pdv-caixa/internal/dto"
	"github.com/alexconectado/pdv-caixa/internal/model"
	"github.com/alexconectado/pdv-caixa/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type AuthService interface {
	// Login verifies credentials and issues a signed session token carrying
	// the user id and a fresh CSRF token. The error is uniform — it never
	// reveals whether the username, password or active flag failed.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, string, error)
	CreateUser(ctx context.Context, actor *model.User, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	ReactivateUser(ctx context.Context, id uuid.UUID) error
	// EnsureDefaultAdmin creates the bootstrap admin account on first start.
	EnsureDefaultAdmin(ctx context.Context) error
}

type authService struct {
	users repository.UserRepository
	audit repository.AuditRepository
	cfg   *config.Config
}

func NewAuthService(users repository.UserRepository, audit repository.AuditRepository, cfg *config.Config) AuthService {
	return &authService{users: users, audit: audit, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, string, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.Active {
		return nil, "", ErrInvalidCredentials
	}

	csrf := newCsrfToken()
	ttl := time.Duration(s.cfg.SessionTTLHours) * time.Hour
	token, err := s.signSession(user, csrf, ttl)
	if err != nil {
		return nil, "", err
	}

	return &dto.LoginResponse{
		User:      userToResponse(user),
		CsrfToken: csrf,
		ExpiresIn: s.cfg.SessionTTLHours * 3600,
	}, token, nil
}

func (s *authService) CreateUser(ctx context.Context, actor *model.User, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]string{
		"username": user.Username,
		"role":     user.Role,
	})
	entry := &model.AuditLog{
		Action:     model.AuditCreateUser,
		EntityType: "user",
		EntityID:   &user.ID,
		UserID:     actor.ID,
		Details:    string(details),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("audit write failed for create_user")
	}

	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Deactivate(ctx, id)
}

func (s *authService) ReactivateUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Reactivate(ctx, id)
}

func (s *authService) EnsureDefaultAdmin(ctx context.Context) error {
	if _, err := s.users.FindByUsername(ctx, "admin"); err == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.DefaultAdminPassword), bcryptCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:     "admin",
		FullName:     "Administrador",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	log.Info().Msg("default admin account created")
	return nil
}

func (s *authService) signSession(user *model.User, csrf string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"csrf":    csrf,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

func newCsrfToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Active:   u.Active,
	}
}
