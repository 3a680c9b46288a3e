package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"campanario/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL  = time.Hour
	defaultConfigTTL = 10 * time.Minute

	scopeAPI    = "api"
	scopeConfig = "config"
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrMissingKey      = errors.New("signing key is empty")
)

// AuthConfig configures token signing.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
	// ConfigTTL bounds how long a PIN unlock stays valid.
	ConfigTTL time.Duration
}

// AuthService handles operator accounts and the tokens guarding the API.
type AuthService struct {
	authRepo repository.Authorization
	key      []byte
	ttl      time.Duration
	cfgTTL   time.Duration
	now      func() time.Time
}

func NewAuthService(repo repository.Authorization, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.ConfigTTL <= 0 {
		cfg.ConfigTTL = defaultConfigTTL
	}
	return &AuthService{
		authRepo: repo,
		key:      []byte(cfg.SigningKey),
		ttl:      cfg.TokenTTL,
		cfgTTL:   cfg.ConfigTTL,
		now:      time.Now,
	}
}

// SignUp hashes password and creates a new operator
func (s *AuthService) SignUp(username, password string) (int, error) {
	if strings.TrimSpace(username) == "" {
		return 0, invalid("username", "usuario_obligatorio")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	return s.authRepo.Create(username, hash)
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	Scope  string `json:"scope"`
}

// GenerateToken validates credentials and returns JWT
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	u, err := s.authRepo.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(u.ID, scopeAPI, s.ttl)
}

// ParseToken parses an API token and returns the operator id
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	claims, err := s.parse(accessToken)
	if err != nil {
		return 0, err
	}
	if claims.Scope != scopeAPI {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// IssueConfigToken returns a short-lived token proving the device PIN was
// accepted for userID. It unlocks the configuration endpoints.
func (s *AuthService) IssueConfigToken(userID int) (string, error) {
	return s.issueToken(userID, scopeConfig, s.cfgTTL)
}

// ParseConfigToken validates a token from IssueConfigToken.
func (s *AuthService) ParseConfigToken(token string) (int, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	if claims.Scope != scopeConfig {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (s *AuthService) parse(accessToken string) (*Claims, error) {
	if len(s.key) == 0 {
		return nil, ErrMissingKey
	}
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueToken(userID int, scope string, ttl time.Duration) (string, error) {
	if len(s.key) == 0 {
		return "", ErrMissingKey
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Scope:  scope,
	})
	return token.SignedString(s.key)
}
