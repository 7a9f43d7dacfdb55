package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"instafeed/internal/models"
	"instafeed/internal/repository"
	"instafeed/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var usernamePattern = regexp.MustCompile(`^[a-z0-9._]{1,30}$`)

// Claims are the JWT claims of a session token
type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthService handles sign-up, sign-in and session resolution
type AuthService struct {
	users       UserStore
	revocations session.RevocationStore
	jwtSecret   []byte
	tokenTTL    time.Duration
	bcryptCost  int
	now         func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, revocations session.RevocationStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		revocations: revocations,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
	}
}

// SignUpInput is the sign-up form
type SignUpInput struct {
	Username string
	FullName string
	Email    string
	Password string
}

func (in *SignUpInput) normalize() error {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Username == "" || in.FullName == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return invalid("Please fill in all fields")
	}
	if !usernamePattern.MatchString(in.Username) {
		return invalid("Usernames may only contain letters, numbers, periods and underscores")
	}
	if err := validateFullName(in.FullName); err != nil {
		return err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return invalid("Please enter a valid email address")
	}
	in.Email = email
	if len(in.Password) < minPasswordLength {
		return invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// normalizeEmail reduces an address, display name included, to its lower-cased
// addr-spec so that one mailbox maps to one account.
func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(addr.Address), nil
}

// SignUp creates an account and returns it with a session token
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.User, string, error) {
	if err := in.normalize(); err != nil {
		return nil, "", err
	}

	exists, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrAccountExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// SignIn checks the credentials and returns the user with a session token
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// SignOut revokes the session's token until it would have expired
func (s *AuthService) SignOut(ctx context.Context, sess session.Session) error {
	if !sess.IsAuthenticated() || sess.TokenID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// GenerateJWT generates a session token for a user
func (s *AuthService) GenerateJWT(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a session token and returns its claims
func (s *AuthService) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UID == "" || claims.ID == "" {
		return nil, fmt.Errorf("token is missing uid or id")
	}

	return claims, nil
}

// Resolve turns a session token into the request's session. Infrastructure
// failures yield an Unresolved session, never Anonymous.
func (s *AuthService) Resolve(ctx context.Context, token string) session.Session {
	if token == "" {
		return session.NewAnonymous()
	}

	claims, err := s.ValidateJWT(token)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected session token")
		return session.NewAnonymous()
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UID).Msg("Failed to check token revocation")
		return session.NewUnresolved()
	}
	if revoked {
		return session.NewAnonymous()
	}

	user, err := s.users.GetByID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return session.NewAnonymous()
		}
		log.Error().Err(err).Str("user_id", claims.UID).Msg("Failed to load session user")
		return session.NewUnresolved()
	}

	return session.NewAuthenticated(user, claims.ID, claims.ExpiresAt.Time)
}
