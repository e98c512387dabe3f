package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/constants"
	"github.com/nedirbay/project-management-own-version/internal/membership"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/policy"
	"github.com/nedirbay/project-management-own-version/internal/repository"
	"github.com/nedirbay/project-management-own-version/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCannotDeleteSelf = newError(ErrValidation, "you cannot delete your own account")
	ErrWrongPassword    = newError(ErrValidation, "current password is incorrect")
)

// UserService manages accounts and their settings.
type UserService struct {
	userRepo repository.UserRepository
	resolver *membership.Resolver
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, resolver *membership.Resolver) *UserService {
	return &UserService{userRepo: userRepo, resolver: resolver}
}

// CreateUserInput represents input for an admin-created account
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

// UpdateUserInput carries the profile fields that may change. Nil means unchanged.
type UpdateUserInput struct {
	FullName *string
	Email    *string
	Phone    *string
	Bio      *string
	Avatar   *string
}

// UpdateSettingsInput carries the settings that may change. Nil means unchanged.
type UpdateSettingsInput struct {
	Theme         *string
	Language      *string
	Timezone      *string
	DateFormat    *string
	TimeFormat    *string
	Notifications *models.NotificationSettings
}

func (s *UserService) load(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}
	return user, nil
}

func (s *UserService) authorizeOn(actor Actor, userID uuid.UUID, action policy.Action) error {
	return authorize(actor, s.resolver.ForUser(actor, userID), policy.ResourceUser, action)
}

// List returns active users. Only global admins may list accounts.
func (s *UserService) List(actor Actor, page utils.PaginationParams) ([]models.User, int64, error) {
	if err := s.authorizeOn(actor, uuid.Nil, policy.ActionRead); err != nil {
		return nil, 0, err
	}
	users, total, err := s.userRepo.List(page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Get returns one account
func (s *UserService) Get(actor Actor, id uuid.UUID) (*models.User, error) {
	user, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOn(actor, id, policy.ActionRead); err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates an account with an explicit role, defaulting to Member.
func (s *UserService) Create(actor Actor, input CreateUserInput) (*models.User, error) {
	if err := s.authorizeOn(actor, uuid.Nil, policy.ActionCreate); err != nil {
		return nil, err
	}

	role := models.RoleMember
	if strings.TrimSpace(input.Role) != "" {
		parsed, err := models.ParseRole(strings.TrimSpace(input.Role))
		if err != nil {
			return nil, validationf("%v", err)
		}
		role = parsed
	}

	return newUser(s.userRepo, newUserInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Role:     role,
	})
}

// Update changes profile fields of an account
func (s *UserService) Update(actor Actor, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	user, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOn(actor, id, policy.ActionWrite); err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, validationf("full name cannot be empty")
		}
		if utf8.RuneCountInString(name) > constants.MaxNameLength {
			return nil, validationf("full name must be at most %d characters", constants.MaxNameLength)
		}
		user.FullName = name
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			taken, err := s.userRepo.EmailExists(email, &user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Avatar != nil {
		user.Avatar = strings.TrimSpace(*input.Avatar)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, storeErr(err, ErrEmailTaken, "update user")
	}
	return user, nil
}

// Delete deactivates an account. Admins cannot deactivate themselves.
func (s *UserService) Delete(actor Actor, id uuid.UUID) error {
	if _, err := s.load(id); err != nil {
		return err
	}
	if err := s.authorizeOn(actor, id, policy.ActionDelete); err != nil {
		return err
	}
	if id == actor.UserID {
		return ErrCannotDeleteSelf
	}

	if err := s.userRepo.Deactivate(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ChangeRole sets the global role of an account
func (s *UserService) ChangeRole(actor Actor, id uuid.UUID, role string) (*models.User, error) {
	user, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOn(actor, id, policy.ActionRoleChange); err != nil {
		return nil, err
	}

	parsed, err := models.ParseRole(strings.TrimSpace(role))
	if err != nil {
		return nil, validationf("%v", err)
	}
	user.Role = parsed

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
// Global admins resetting someone else's password skip the verification.
func (s *UserService) ChangePassword(actor Actor, id uuid.UUID, current, next string) error {
	user, err := s.load(id)
	if err != nil {
		return err
	}
	if err := s.authorizeOn(actor, id, policy.ActionWrite); err != nil {
		return err
	}

	if actor.UserID == id || !actor.IsAdmin() {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
			return ErrWrongPassword
		}
	}
	if err := checkPassword(next); err != nil {
		return err
	}

	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GetSettings returns the actor's settings, falling back to the defaults
// when none were saved yet.
func (s *UserService) GetSettings(actor Actor) (*models.UserSettings, error) {
	settings, err := s.userRepo.FindSettings(actor.UserID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find settings: %w", err)
	}

	defaults := models.DefaultUserSettings(actor.UserID)
	return &defaults, nil
}

// UpdateSettings merges input into the actor's settings and saves them
func (s *UserService) UpdateSettings(actor Actor, input UpdateSettingsInput) (*models.UserSettings, error) {
	settings, err := s.GetSettings(actor)
	if err != nil {
		return nil, err
	}

	if input.Theme != nil {
		switch *input.Theme {
		case "light", "dark", "system":
			settings.Theme = *input.Theme
		default:
			return nil, validationf("theme must be one of light, dark, system")
		}
	}
	if input.Language != nil {
		settings.Language = strings.TrimSpace(*input.Language)
	}
	if input.Timezone != nil {
		settings.Timezone = strings.TrimSpace(*input.Timezone)
	}
	if input.DateFormat != nil {
		settings.DateFormat = strings.TrimSpace(*input.DateFormat)
	}
	if input.TimeFormat != nil {
		switch *input.TimeFormat {
		case "12h", "24h":
			settings.TimeFormat = *input.TimeFormat
		default:
			return nil, validationf("time format must be 12h or 24h")
		}
	}
	if input.Notifications != nil {
		settings.Notifications = datatypes.NewJSONType(*input.Notifications)
	}

	if err := s.userRepo.SaveSettings(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}
