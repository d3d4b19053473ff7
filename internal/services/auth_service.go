package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken            = apperr.New(apperr.KindConflict, "EMAIL_TAKEN", "Email already registered")
	ErrInvalidCredentials    = apperr.New(apperr.KindUnauthenticated, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountInactive       = apperr.New(apperr.KindUnauthenticated, "ACCOUNT_INACTIVE", "Account is inactive")
	ErrWrongCurrentPassword  = apperr.New(apperr.KindValidation, "INVALID_CURRENT_PASSWORD", "Current password is incorrect")
	ErrUserNotFound          = apperr.NotFound("User")
	ErrBlankRegistrationData = apperr.Validation("Email, password, first name and last name are required", nil)
)

const (
	minPasswordChars = 8
	maxPasswordBytes = 72 // bcrypt input limit
)

// checkPassword counts the minimum in characters, like the request
// validator, and the maximum in bytes, which is what bcrypt accepts.
func checkPassword(field, password string) error {
	if utf8.RuneCountInString(password) < minPasswordChars {
		return apperr.Field(field, fmt.Sprintf("must be at least %d characters", minPasswordChars))
	}
	if len(password) > maxPasswordBytes {
		return apperr.Field(field, fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func hashPassword(field, password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Field(field, fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("hash password: %w", err), "hash password")
	}
	return string(hash), nil
}

type AuthService struct {
	users    UserStore
	sessions *session.Manager
	cfg      *config.Config
	clock    clock.Clock
}

func NewAuthService(users UserStore, sessions *session.Manager, cfg *config.Config, clk clock.Clock) *AuthService {
	return &AuthService{users: users, sessions: sessions, cfg: cfg, clock: clk}
}

// Register creates an active employee and signs them in. Roles are only ever
// raised through the admin update path.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if email == "" || first == "" || last == "" || strings.TrimSpace(req.Password) == "" {
		return nil, ErrBlankRegistrationData
	}
	if err := checkPassword("password", req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Internal(err, "check email")
	}

	hashed, err := hashPassword("password", req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    first,
		LastName:     last,
		PasswordHash: &hashed,
		Role:         models.RoleEmployee,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal(err, "register")
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID.String(), "action", "register")
	return s.startSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, ErrUserNotFound) {
		slog.WarnContext(ctx, "login failed", "reason", "unknown email", "action", "login")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Internal(err, "login")
	}

	if !user.IsActive() {
		slog.WarnContext(ctx, "login failed", "reason", "inactive", "user_id", user.ID.String(), "action", "login")
		return nil, ErrAccountInactive
	}

	if !user.HasPassword() {
		if !s.passwordlessAllowed() {
			slog.WarnContext(ctx, "login failed", "reason", "no password set", "user_id", user.ID.String(), "action", "login")
			return nil, ErrInvalidCredentials
		}
		slog.WarnContext(ctx, "development passwordless login", "user_id", user.ID.String(), "email", user.Email, "action", "login")
		return s.startSession(ctx, user)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		slog.WarnContext(ctx, "login failed", "reason", "bad password", "user_id", user.ID.String(), "action", "login")
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, p access.Principal) error {
	if err := s.sessions.End(ctx, p.SessionID); err != nil {
		return apperr.Internal(err, "logout")
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, p access.Principal) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, wrapStoreErr(err, "load current user")
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword requires the current password unless the account has none,
// which only the development bypass accepts.
func (s *AuthService) ChangePassword(ctx context.Context, p access.Principal, req *dto.ChangePasswordRequest) error {
	if err := checkPassword("newPassword", req.NewPassword); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return wrapStoreErr(err, "load current user")
	}

	if user.HasPassword() {
		if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)) != nil {
			return ErrWrongCurrentPassword
		}
	} else if !s.passwordlessAllowed() {
		return ErrWrongCurrentPassword
	}

	hash, err := hashPassword("newPassword", req.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.SetPasswordHash(ctx, user.ID, hash, clock.NextStamp(s.clock.Now(), user.UpdatedAt)); err != nil {
		return wrapStoreErr(err, "change password")
	}
	slog.InfoContext(ctx, "password changed", "user_id", user.ID.String(), "action", "change_password")
	return nil
}

// DevUsers lists active users for the development login picker.
func (s *AuthService) DevUsers(ctx context.Context) ([]dto.DevUserResponse, error) {
	users, err := s.users.List(ctx, true)
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	out := make([]dto.DevUserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.DevUserResponse{
			ID:    users[i].ID,
			Email: users[i].Email,
			Name:  users[i].DisplayName(),
			Role:  string(users[i].Role),
		})
	}
	return out, nil
}

func (s *AuthService) passwordlessAllowed() bool {
	return s.cfg.DevPasswordlessAuth && s.cfg.IsDevelopment()
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	token, sess, err := s.sessions.Start(ctx, user.ID, user.Email, user.DisplayName())
	if err != nil {
		return nil, apperr.Internal(err, "start session")
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

func ToUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Name:            u.DisplayName(),
		ProfileImageURL: u.ProfileImageURL,
		Role:            string(u.Role),
		Status:          string(u.Status),
		ManagerID:       u.ManagerID,
		HasPassword:     u.HasPassword(),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// wrapStoreErr passes classified errors through and marks the rest internal.
func wrapStoreErr(err error, op string) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(err, op)
}
