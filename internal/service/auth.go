package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/jobsight/jobsight-go/internal/crypto"
	"github.com/jobsight/jobsight-go/internal/model"
	"github.com/jobsight/jobsight-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameLength     = errors.New("username must be between 4 and 20 characters")
	ErrNameLength         = errors.New("first and last name must be between 2 and 50 characters")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordMismatch   = errors.New("passwords must match")
	ErrUsernameTaken      = errors.New("username already exists, please choose a different one")
	ErrEmailTaken         = errors.New("email already registered, please use a different email")
)

// UserStore persists recruiter accounts.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}

// AuthService handles authentication business logic.
type AuthService struct {
	users  UserStore
	tokens *crypto.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens *crypto.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	user, err := validateRegistration(req)
	if err != nil {
		return model.AuthResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.AuthResponse{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return s.authResponse(user)
}

// Login authenticates a user by username and returns an auth token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return model.AuthResponse{}, ErrUsernameRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("login failed", "username", username, "reason", "unknown user")
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		slog.Info("login failed", "username", username, "reason", "bad password")
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	if crypto.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, req.Password)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return s.authResponse(user)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return model.NewUserResponse(user), nil
}

// TokenExpiry is the lifetime of issued tokens.
func (s *AuthService) TokenExpiry() int {
	return int(s.tokens.Expiry().Seconds())
}

func (s *AuthService) authResponse(user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, User: model.NewUserResponse(user)}, nil
}

func (s *AuthService) rehash(ctx context.Context, userID int64, password string) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		slog.Warn("password rehash failed", "user_id", userID, "error", err)
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		slog.Warn("password rehash failed", "user_id", userID, "error", err)
	}
}

func validateRegistration(req model.RegisterRequest) (*model.User, error) {
	user := &model.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	if user.Username == "" {
		return nil, ErrUsernameRequired
	}
	if !lengthBetween(user.Username, 4, 20) {
		return nil, ErrUsernameLength
	}
	if !lengthBetween(user.FirstName, 2, 50) || !lengthBetween(user.LastName, 2, 50) {
		return nil, ErrNameLength
	}
	if !validEmail(user.Email) {
		return nil, ErrInvalidEmail
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	if utf8.RuneCountInString(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	return user, nil
}

func lengthBetween(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

// validEmail accepts a bare address with a dotted domain.
func validEmail(email string) bool {
	if email == "" || len(email) > 120 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
