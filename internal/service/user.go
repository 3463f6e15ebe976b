package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/beconsistent/consistent-api/internal/mail"
	"github.com/beconsistent/consistent-api/internal/model"
	"github.com/beconsistent/consistent-api/internal/repository"
)

const resetTokenTTL = 15 * time.Minute

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// Profile is the user view returned to clients; it never carries the
// password hash.
type Profile struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	AvatarURL    string `json:"avatar_url"`
	ReminderTime string `json:"reminder_time"`
	ReportTime   string `json:"report_time"`
}

func profileOf(u model.User) Profile {
	return Profile{
		Email:        u.Email,
		Name:         u.Name,
		AvatarURL:    u.AvatarURL,
		ReminderTime: u.ReminderTime,
		ReportTime:   u.ReportTime,
	}
}

type UserService struct {
	repo      repository.UserRepository
	mailer    mail.Sender
	jwtSecret []byte
	baseURL   string
}

func NewUserService(repo repository.UserRepository, mailer mail.Sender, jwtSecret, baseURL string) *UserService {
	return &UserService{
		repo:      repo,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (Profile, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return Profile{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Profile{}, fmt.Errorf("%w: user already registered", ErrConflict)
	} else if !errors.Is(err, repository.ErrNoDocuments) {
		return Profile{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: string(hash),
		AvatarURL:    model.DefaultAvatarURL,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		// The unique email index closes the gap between the existence
		// check above and the insert.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return Profile{}, fmt.Errorf("%w: user already registered", ErrConflict)
		}
		return Profile{}, fmt.Errorf("failed to create user: %w", err)
	}
	return profileOf(created), nil
}

func (s *UserService) Login(ctx context.Context, input LoginInput) (Profile, error) {
	if input.Email == "" || input.Password == "" {
		return Profile{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return Profile{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return profileOf(user), nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (Profile, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("failed to find user: %w", err)
	}
	return profileOf(user), nil
}

// UpdateByEmail applies a partial preference update; unspecified fields
// keep their stored values.
func (s *UserService) UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (Profile, error) {
	if upd.Name != nil && *upd.Name == "" {
		return Profile{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	for _, clock := range []*string{upd.ReminderTime, upd.ReportTime} {
		if clock != nil && *clock != "" && !model.ValidClock(*clock) {
			return Profile{}, fmt.Errorf("%w: times must be HH:MM", ErrInvalidInput)
		}
	}

	user, err := s.repo.UpdateByEmail(ctx, email, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("failed to update user: %w", err)
	}
	return profileOf(user), nil
}

// ForgotPassword emails a reset link carrying a short-lived signed token.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   user.Email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)
	html := fmt.Sprintf(
		`<p>Click <a href="%s">here</a> to reset your password. This link expires in 15 minutes.</p>`,
		link,
	)
	if err := s.mailer.Send(ctx, user.Email, "Password Reset Request", "", html); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: token and new password are required", ErrInvalidInput)
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, claims.Subject, string(hash)); err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}
