package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ridloal/supermarket-management/internal/platform/config"
	"github.com/ridloal/supermarket-management/internal/platform/latency"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/ridloal/supermarket-management/internal/platform/storage"
	"github.com/ridloal/supermarket-management/internal/user/domain"
	"github.com/ridloal/supermarket-management/internal/user/repository"
	"golang.org/x/crypto/bcrypt"
)

// Storage keys of the persisted session.
const (
	TokenKey = "supermarket-auth-token"
	UserKey  = "supermarket-user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResponse, error)
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	Token(ctx context.Context) string
	CurrentUser(ctx context.Context) *domain.User
	HasRole(ctx context.Context, role domain.Role) bool
	IsAdmin(ctx context.Context) bool
	IsCashier(ctx context.Context) bool
	IsStaff(ctx context.Context) bool
	// ValidateToken checks a bearer token against the active session.
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

type authService struct {
	repo       repository.UserRepository
	store      storage.Store
	secret     []byte
	loginDelay time.Duration
	now        func() time.Time
}

func NewAuthService(repo repository.UserRepository, store storage.Store, cfg config.AuthConfig) AuthService {
	return &authService{
		repo:       repo,
		store:      store,
		secret:     cfg.JWTSecret,
		loginDelay: cfg.LoginDelay,
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	if err := latency.Sleep(ctx, s.loginDelay); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			logger.Error("Login: failed to get user by email", err)
		}
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"iat":     s.now().Unix(),
		"jti":     uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Error("Login: failed to sign token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	user.PasswordHash = ""
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("could not encode user: %w", err)
	}
	if err := s.persistSession(ctx, string(raw), tokenString); err != nil {
		return nil, fmt.Errorf("could not persist session: %w", err)
	}

	logger.Info("User %s logged in as %s", user.Email, user.Role)
	return &domain.LoginResponse{User: *user, Token: tokenString}, nil
}

// persistSession stores both session keys or leaves the previous session as it was.
func (s *authService) persistSession(ctx context.Context, user, token string) error {
	prior := make(map[string]string, 2)
	for _, key := range []string{UserKey, TokenKey} {
		v, err := s.store.Get(ctx, key)
		switch {
		case err == nil:
			prior[key] = v
		case errors.Is(err, storage.ErrKeyNotFound):
		default:
			logger.Error("Login: failed to read current session", err)
			return err
		}
	}

	var written []string
	for _, kv := range [][2]string{{UserKey, user}, {TokenKey, token}} {
		if err := s.store.Set(ctx, kv[0], kv[1]); err != nil {
			logger.Error(fmt.Sprintf("Login: failed to persist %s", kv[0]), err)
			s.restoreSession(context.WithoutCancel(ctx), append(written, kv[0]), prior)
			return err
		}
		written = append(written, kv[0])
	}
	return nil
}

// restoreSession puts keys back to their prior values, deleting those that had none.
func (s *authService) restoreSession(ctx context.Context, keys []string, prior map[string]string) {
	for _, key := range keys {
		var err error
		if v, ok := prior[key]; ok {
			err = s.store.Set(ctx, key, v)
		} else {
			err = s.store.Delete(ctx, key)
		}
		if err != nil {
			logger.Error(fmt.Sprintf("Login: failed to restore %s", key), err)
		}
	}
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, TokenKey, UserKey); err != nil {
		logger.Error("Logout: failed to clear session", err)
		return err
	}
	return nil
}

func (s *authService) Token(ctx context.Context) string {
	token, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			logger.Error("Token: storage error", err)
		}
		return ""
	}
	return token
}

func (s *authService) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

func (s *authService) CurrentUser(ctx context.Context) *domain.User {
	raw, err := s.store.Get(ctx, UserKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			logger.Error("CurrentUser: storage error", err)
		}
		return nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Error("CurrentUser: malformed stored user", err)
		return nil
	}
	return &user
}

func (s *authService) HasRole(ctx context.Context, role domain.Role) bool {
	user := s.CurrentUser(ctx)
	return user != nil && user.Role == role
}

func (s *authService) IsAdmin(ctx context.Context) bool   { return s.HasRole(ctx, domain.RoleAdmin) }
func (s *authService) IsCashier(ctx context.Context) bool { return s.HasRole(ctx, domain.RoleCashier) }
func (s *authService) IsStaff(ctx context.Context) bool   { return s.HasRole(ctx, domain.RoleStaff) }

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		logger.Debug("ValidateToken: rejected token: %v", err)
		return nil, ErrUnauthorized
	}

	if tokenString != s.Token(ctx) {
		return nil, ErrUnauthorized
	}
	user := s.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	if id, _ := claims["user_id"].(string); id != user.ID {
		return nil, ErrUnauthorized
	}

	// the stored snapshot must still name a known account
	known, err := s.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			logger.Error("ValidateToken: failed to get user by id", err)
		}
		return nil, ErrUnauthorized
	}
	known.PasswordHash = ""
	return known, nil
}
