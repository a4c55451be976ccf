package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/lingoflash/internal/auth"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// RegisterInput is the account and initial profile for a new learner.
type RegisterInput struct {
	Email    string
	Password string
	Language string
	Level    string
	Goal     *string
}

// AuthResult is returned on successful register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService handles accounts and sessions
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	hasher      *auth.Hasher
	tokens      *auth.TokenIssuer
	dailyGoal   int
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	hasher *auth.Hasher,
	tokens *auth.TokenIssuer,
	defaultDailyGoal int,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		hasher:      hasher,
		tokens:      tokens,
		dailyGoal:   defaultDailyGoal,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := logger.FromContext(ctx).WithPrefix("auth_service")

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, errors.NewBadRequestError("email and password are required")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, errors.NewValidationError("password", "must have at least 6 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Error("failed to look up user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("user already exists")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError("user already exists")
		}
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	profile := models.DefaultProfile(user.ID)
	profile.DailyGoal = s.dailyGoal
	if in.Language != "" {
		profile.Language = in.Language
	}
	if in.Level != "" {
		profile.Level = in.Level
	}
	profile.Goal = in.Goal

	stored, err := s.profileRepo.Upsert(ctx, profile)
	if err != nil {
		log.Error("failed to create profile: user_id=%s, error=%v", user.ID, err)
		return nil, errors.NewInternalError(err)
	}
	user.Profile = stored

	log.Info("user registered: user_id=%s", user.ID)
	return s.issue(ctx, &user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx).WithPrefix("auth_service")

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.NewBadRequestError("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Error("failed to look up user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		log.Debug("password mismatch: user_id=%s", user.ID)
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	profile, err := s.profileRepo.Get(ctx, user.ID)
	if err != nil {
		log.Error("failed to load profile: user_id=%s, error=%v", user.ID, err)
		return nil, errors.NewInternalError(err)
	}
	user.Profile = profile

	return s.issue(ctx, user)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("auth_service")

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}

	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load profile: user_id=%s, error=%v", userID, err)
		return nil, errors.NewInternalError(err)
	}
	user.Profile = profile
	return user, nil
}

// Authenticate resolves a bearer token to a user id.
func (s *authService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("auth_service").Debug("token rejected: %v", err)
		return "", errors.NewUnauthorizedError("invalid or expired token")
	}
	return userID, nil
}

func (s *authService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("auth_service").Error("failed to issue token: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
