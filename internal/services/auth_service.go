package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/auth"
	"github.com/nedirbay/project-management-own-version/internal/constants"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = newError(ErrConflict, "username already exists")
	ErrEmailTaken         = newError(ErrConflict, "email already exists")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid username or password")
	ErrAccountDisabled    = newError(ErrUnauthorized, "account is deactivated")
	ErrPasswordTooShort   = newError(ErrValidation, fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	ErrPasswordTooLong    = newError(ErrValidation, fmt.Sprintf("password must be at most %d bytes", constants.MaxPasswordLength))
	ErrInvalidEmail       = newError(ErrValidation, "email is not a valid address")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
)

// AuthService handles registration, login and token issuance.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Session is the outcome of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Register creates a Member account and signs a token for it.
func (s *AuthService) Register(input RegisterInput) (*Session, error) {
	user, err := newUser(s.userRepo, newUserInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Role:     models.RoleMember,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login verifies credentials and signs a token. Unknown users, wrong
// passwords and deactivated accounts are all Unauthorized.
func (s *AuthService) Login(input LoginInput) (*Session, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	return s.issue(user)
}

// CurrentUser returns the active account behind a token subject.
func (s *AuthService) CurrentUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

type newUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     models.Role
}

// newUser validates and persists an account. It backs both self
// registration and admin-created users.
func newUser(repo repository.UserRepository, input newUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if n := utf8.RuneCountInString(username); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return nil, validationf("username must be between %d and %d characters", constants.MinUsernameLength, constants.MaxUsernameLength)
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, validationf("full name is required")
	}
	if utf8.RuneCountInString(fullName) > constants.MaxNameLength {
		return nil, validationf("full name must be at most %d characters", constants.MaxNameLength)
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, err
	}

	taken, err := repo.UsernameExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = repo.EmailExists(email, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         input.Role,
		Active:       true,
	}
	if err := repo.Create(user); err != nil {
		return nil, storeErr(err, ErrUsernameTaken, "create user")
	}
	return user, nil
}

func checkPassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > constants.MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", validationf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
