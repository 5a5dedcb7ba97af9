package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenIssuer   = "yatube"
	TokenAudience = "yatube-web"
	TokenTTL      = 7 * 24 * time.Hour

	blacklistPrefix = "blacklist:"
)

// Claims is the session token payload. Subject carries the user id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid subject claim")
	}
	return uint(id), nil
}

type SignupInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService struct {
	users      repository.UserRepository
	redis      *redis.Client
	secret     []byte
	now        func() time.Time
	bcryptCost int
}

type AuthOption func(*AuthService)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithBcryptCost overrides the hashing cost, for tests.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

// NewAuthService builds the service. rdb may be nil, in which case tokens
// cannot be revoked before they expire.
func NewAuthService(users repository.UserRepository, rdb *redis.Client, secret string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		redis:      rdb,
		secret:     []byte(secret),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService", "Signup")
	defer func() {
		observability.EndSpan(span, err)
		observability.AuthAttempts.WithLabelValues("signup", outcome(err)).Inc()
	}()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password, in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, models.NewValidationError("A user with that username already exists.")
	} else if !models.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, models.NewValidationError("A user with that email already exists.")
	} else if !models.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password pair. Unknown users and
// wrong passwords produce the same UNAUTHORIZED error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService", "Authenticate")
	defer func() {
		observability.EndSpan(span, err)
		observability.AuthAttempts.WithLabelValues("login", outcome(err)).Inc()
	}()

	invalid := models.NewUnauthorizedError("Please enter a correct username and password.")

	user, err = s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}
	now := s.now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateJTI(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// generateJTI creates a unique token id used for revocation.
func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}

// ParseToken verifies signature, issuer, audience and lifetime, then
// rejects tokens whose jti has been revoked.
func (s *AuthService) ParseToken(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	if s.redis != nil && claims.ID != "" {
		n, err := s.redis.Exists(ctx, blacklistPrefix+claims.ID).Result()
		if err != nil {
			// Revocation cannot be checked; accept the signed token.
			middleware.Logger.WarnContext(ctx, "token blacklist lookup failed", "error", err)
		} else if n > 0 {
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}
	return claims, nil
}

// Revoke blacklists the token's jti until the token would have expired.
func (s *AuthService) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if s.redis == nil {
		middleware.Logger.WarnContext(ctx, "redis unavailable, token not revoked", "jti", claims.ID)
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, blacklistPrefix+claims.ID, "1", ttl).Err(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return "failure"
}
