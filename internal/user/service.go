package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/fkhayef/lendex/internal/config"
	"github.com/fkhayef/lendex/pkg/middleware"
	"github.com/fkhayef/lendex/pkg/tokenstore"
)

// Common errors
var (
	ErrUserExists         = errors.New("username or email already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrInvalidToken       = errors.New("invalid or expired reset token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidInput       = errors.New("username and email are required")
)

const (
	otpTTL   = 5 * time.Minute
	resetTTL = time.Hour
)

// Mailer sends account emails. *mailer.Mailer satisfies it.
type Mailer interface {
	Send(to, subject, body string) error
}

// Service handles account business logic
type Service struct {
	repo   *Repository
	tokens tokenstore.Store
	mail   Mailer
	cfg    *config.Config
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new user service
func NewService(repo *Repository, tokens tokenstore.Store, mail Mailer, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		mail:   mail,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates an account with a bcrypt password hash
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" {
		return nil, ErrInvalidInput
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", u.ID).Info("User registered")
	return u, nil
}

// Login checks credentials and issues a signed JWT
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := &middleware.Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResponse{Token: token, User: u}, nil
}

// SendOTP emails a short-lived verification code
func (s *Service) SendOTP(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	code, err := otpCode()
	if err != nil {
		return err
	}
	if err := s.tokens.Put(ctx, otpKey(u.Email), code, otpTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Your Lendex verification code is %s. It expires in 5 minutes.", code)
	if err := s.mail.Send(u.Email, "Lendex - Verification Code", body); err != nil {
		return err
	}

	s.logger.WithField("user_id", u.ID).Info("Verification code sent")
	return nil
}

// VerifyOTP confirms the emailed code. Codes are single-use.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	stored, ok, err := s.tokens.Take(ctx, otpKey(u.Email))
	if err != nil {
		return err
	}
	if !ok || stored != code {
		return ErrInvalidCode
	}

	return s.repo.SetVerified(ctx, u.ID)
}

// SendPasswordReset emails a single-use reset token
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if u == nil {
		// Do not reveal whether the address is registered.
		return nil
	}

	token := uuid.NewString()
	if err := s.tokens.Put(ctx, resetKey(token), strconv.FormatInt(u.ID, 10), resetTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Use this token to reset your Lendex password: %s. It expires in 1 hour.", token)
	if err := s.mail.Send(u.Email, "Lendex - Password Reset", body); err != nil {
		return err
	}

	s.logger.WithField("user_id", u.ID).Info("Password reset token sent")
	return nil
}

// ResetPassword sets a new password using the emailed token
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return ErrWeakPassword
	}

	stored, ok, err := s.tokens.Take(ctx, resetKey(req.Token))
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidToken
	}

	userID, err := strconv.ParseInt(stored, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.SetPassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.logger.WithField("user_id", userID).Info("Password reset")
	return nil
}

// Profile returns the account
func (s *Service) Profile(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile edits username and email
func (s *Service) UpdateProfile(ctx context.Context, id int64, req *UpdateProfileRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.Profile(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, id, username, email)
}

// EmailFor resolves a user ID to an email address, for reminder delivery
func (s *Service) EmailFor(ctx context.Context, userID int64) (string, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}
	return u.Email, nil
}

func otpKey(email string) string   { return "otp:" + email }
func resetKey(token string) string { return "reset:" + token }

func otpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
