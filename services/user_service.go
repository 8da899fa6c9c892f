package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guildhall/auth"
	"guildhall/models"
	"guildhall/repositories"

	"gorm.io/gorm"
)

const (
	defaultRole     = "player"
	profileArticles = 5
	avatarSize      = 128
)

// The UserService interface defines the methods that user services need to implement
type UserService interface {
	Register(ctx context.Context, input *RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetProfile(ctx context.Context, username string) (*Profile, error)
	UpdateProfile(ctx context.Context, actorID uint, input *UpdateProfileInput) (*models.User, error)
	ListUsers(ctx context.Context, actorID uint, page, pageSize int) ([]models.User, int64, error)
	TouchLastSeen(ctx context.Context, userID uint) error
}

// --- Structs for Input/Output ---

// RegisterInput creates a user and the user's character together.
type RegisterInput struct {
	Username      string `json:"username" validate:"required,max=64" description:"Unique login name"`
	Email         string `json:"email" validate:"required,email,max=120" description:"Unique email address"`
	Password      string `json:"password" validate:"required,min=6"`
	Password2     string `json:"password2" validate:"required" description:"Repeat password"`
	CharacterName string `json:"character_name" validate:"required,max=140" description:"Unique character name"`
}

type UpdateProfileInput struct {
	// Pointers distinguish "not provided" from empty.
	Username      *string `json:"username" validate:"omitempty,min=1,max=64"`
	Email         *string `json:"email" validate:"omitempty,email,max=120"`
	CharacterName *string `json:"character_name" validate:"omitempty,min=1,max=140"`
}

// Profile is the public view of a user.
type Profile struct {
	User      *models.User
	Avatar    string
	Character *models.Character // nil until the user has a character
	Articles  []models.Article
}

type userService struct {
	store *repositories.Store
}

var _ UserService = (*userService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(store *repositories.Store) UserService {
	return &userService{store: store}
}

// Register creates the user and the user's character in one transaction.
func (s *userService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Password != input.Password2 {
		return nil, fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		LastSeen:     time.Now(),
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		_, err := tx.Users.FindByUsername(input.Username)
		if err := requireAbsent(fmt.Sprintf("username %q", input.Username), err); err != nil {
			return err
		}
		_, err = tx.Users.FindByEmail(input.Email)
		if err := requireAbsent(fmt.Sprintf("email %q", input.Email), err); err != nil {
			return err
		}
		_, err = tx.Characters.FindByName(input.CharacterName)
		if err := requireAbsent(fmt.Sprintf("character %q", input.CharacterName), err); err != nil {
			return err
		}

		if err := tx.Users.Create(user); err != nil {
			return writeError("user", err)
		}
		if err := tx.Users.AssignRole(user, defaultRole); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("assign role: %w", err)
		}

		char := &models.Character{Name: input.CharacterName, UserID: user.ID}
		if err := tx.Characters.Create(char); err != nil {
			return writeError("character", err)
		}
		user.Character = char
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credential. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.WithContext(ctx).Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, lookupError("user", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	profile := &Profile{}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		user, err := tx.Users.FindByUsername(username)
		if err != nil {
			return lookupError(fmt.Sprintf("user %q", username), err)
		}
		profile.User = user
		profile.Avatar = user.Avatar(avatarSize)

		char, err := tx.Characters.FindByUserID(user.ID)
		switch {
		case err == nil:
			profile.Character = char
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return lookupError("character", err)
		}

		profile.Articles, err = tx.Articles.ListByAuthor(user.ID, profileArticles)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile changes the actor's username, email and character name.
// A user without a character gets one created under the new name.
func (s *userService) UpdateProfile(ctx context.Context, actorID uint, input *UpdateProfileInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		user, err := tx.Users.FindByID(actorID)
		if err != nil {
			return lookupError("user", err)
		}

		needsSave := false
		if input.Username != nil && *input.Username != user.Username {
			existing, err := tx.Users.FindByUsername(*input.Username)
			if err == nil && existing.ID != user.ID {
				return fmt.Errorf("username %q %w", *input.Username, ErrConflict)
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return lookupError("user", err)
			}
			user.Username = *input.Username
			needsSave = true
		}

		if input.Email != nil && *input.Email != user.Email {
			existing, err := tx.Users.FindByEmail(*input.Email)
			if err == nil && existing.ID != user.ID {
				return fmt.Errorf("email %q %w", *input.Email, ErrConflict)
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return lookupError("user", err)
			}
			user.Email = *input.Email
			needsSave = true
		}

		if needsSave {
			if err := tx.Users.Update(user); err != nil {
				return writeError("user", err)
			}
		}

		if input.CharacterName != nil {
			if err := renameCharacter(tx, user.ID, *input.CharacterName); err != nil {
				return err
			}
		}

		updated, err = tx.Users.FindByID(user.ID)
		if err != nil {
			return lookupError("user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func renameCharacter(tx *repositories.Store, userID uint, name string) error {
	existing, err := tx.Characters.FindByName(name)
	if err == nil && existing.UserID != userID {
		return fmt.Errorf("character %q %w", name, ErrConflict)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return lookupError("character", err)
	}

	char, err := tx.Characters.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := tx.Characters.Create(&models.Character{Name: name, UserID: userID}); err != nil {
			return writeError("character", err)
		}
		return nil
	} else if err != nil {
		return lookupError("character", err)
	}

	if char.Name == name {
		return nil
	}
	char.Name = name
	if err := tx.Characters.Update(char); err != nil {
		return writeError("character", err)
	}
	return nil
}

// ListUsers retrieves a paginated list of users.
// Permissions: "users:list"
func (s *userService) ListUsers(ctx context.Context, actorID uint, page, pageSize int) ([]models.User, int64, error) {
	store := s.store.WithContext(ctx)

	canList, err := store.Users.HasPermissions(actorID, "users:list")
	if err != nil {
		return nil, 0, lookupError("user", err)
	}
	if !canList {
		return nil, 0, fmt.Errorf("%w: you need 'users:list' permission", ErrForbidden)
	}

	users, total, err := store.Users.FindAll(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("database error retrieving users: %w", err)
	}
	return users, total, nil
}

func (s *userService) TouchLastSeen(ctx context.Context, userID uint) error {
	if err := s.store.WithContext(ctx).Users.TouchLastSeen(userID, time.Now()); err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}
	return nil
}
