package services

import (
	"context"
	"errors"
	"fmt"

	"guildhall/models"
	"guildhall/repositories"

	"gorm.io/gorm"
)

type CharacterService interface {
	GetCharacter(ctx context.Context, userID uint) (*models.Character, error)
	CreateCharacter(ctx context.Context, userID uint, name string) (*models.Character, error)
	UpdateCharacter(ctx context.Context, userID uint, input *UpdateCharacterInput) (*models.Character, error)
	EquipWeapon(ctx context.Context, userID uint, weaponName string) (*models.Character, error)
	UnequipWeapon(ctx context.Context, userID uint, weaponName string) (*models.Character, error)
}

// UpdateCharacterInput edits the character sheet; nil fields are left as is.
type UpdateCharacterInput struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=140"`
	Level            *int    `json:"level" validate:"omitempty,min=1"`
	Speed            *int    `json:"speed" validate:"omitempty,min=0"`
	Age              *int    `json:"age" validate:"omitempty,min=0"`
	Origin           *string `json:"origin" validate:"omitempty,max=140"`
	CurrentResidence *string `json:"current_residence" validate:"omitempty,max=140"`
	BornRace         *string `json:"born_race" validate:"omitempty,max=140"`
	CurrentRace      *string `json:"current_race" validate:"omitempty,max=140"`
	Affiliations     *string `json:"affiliations" validate:"omitempty,max=140"`
}

type characterService struct {
	store *repositories.Store
}

var _ CharacterService = (*characterService)(nil)

func NewCharacterService(store *repositories.Store) CharacterService {
	return &characterService{store: store}
}

func (s *characterService) GetCharacter(ctx context.Context, userID uint) (*models.Character, error) {
	char, err := s.store.WithContext(ctx).Characters.FindByUserID(userID)
	if err != nil {
		return nil, lookupError("character", err)
	}
	return char, nil
}

// CreateCharacter gives a user their one character. A second character for
// the same user is a conflict.
func (s *characterService) CreateCharacter(ctx context.Context, userID uint, name string) (*models.Character, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: character name is required", ErrInvalidInput)
	}

	char := &models.Character{Name: name, UserID: userID}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := requireUsers(tx, userID); err != nil {
			return err
		}
		_, err := tx.Characters.FindByUserID(userID)
		if err := requireAbsent("character for this user", err); err != nil {
			return err
		}
		_, err = tx.Characters.FindByName(name)
		if err := requireAbsent(fmt.Sprintf("character %q", name), err); err != nil {
			return err
		}
		if err := tx.Characters.Create(char); err != nil {
			return writeError("character", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return char, nil
}

func (s *characterService) UpdateCharacter(ctx context.Context, userID uint, input *UpdateCharacterInput) (*models.Character, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated *models.Character
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		char, err := tx.Characters.FindByUserID(userID)
		if err != nil {
			return lookupError("character", err)
		}

		if input.Name != nil && *input.Name != char.Name {
			_, err := tx.Characters.FindByName(*input.Name)
			if err := requireAbsent(fmt.Sprintf("character %q", *input.Name), err); err != nil {
				return err
			}
			char.Name = *input.Name
		}
		setInt(&char.Level, input.Level)
		setInt(&char.Speed, input.Speed)
		setInt(&char.Age, input.Age)
		setString(&char.Origin, input.Origin)
		setString(&char.CurrentResidence, input.CurrentResidence)
		setString(&char.BornRace, input.BornRace)
		setString(&char.CurrentRace, input.CurrentRace)
		setString(&char.Affiliations, input.Affiliations)

		if err := tx.Characters.Update(char); err != nil {
			return writeError("character", err)
		}
		updated = char
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (s *characterService) EquipWeapon(ctx context.Context, userID uint, weaponName string) (*models.Character, error) {
	return s.changeInventory(ctx, userID, weaponName, func(tx *repositories.Store, char *models.Character, w *models.Weapon) error {
		return tx.Characters.AddWeapon(char, w)
	})
}

// UnequipWeapon removes the weapon from the inventory; a weapon not carried is a no-op.
func (s *characterService) UnequipWeapon(ctx context.Context, userID uint, weaponName string) (*models.Character, error) {
	return s.changeInventory(ctx, userID, weaponName, func(tx *repositories.Store, char *models.Character, w *models.Weapon) error {
		return tx.Characters.RemoveWeapon(char, w)
	})
}

func (s *characterService) changeInventory(ctx context.Context, userID uint, weaponName string,
	change func(tx *repositories.Store, char *models.Character, w *models.Weapon) error) (*models.Character, error) {
	var updated *models.Character
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		char, err := tx.Characters.FindByUserID(userID)
		if err != nil {
			return lookupError("character", err)
		}
		weapon, err := tx.Weapons.FindByName(weaponName)
		if err != nil {
			return lookupError(fmt.Sprintf("weapon %q", weaponName), err)
		}
		if err := change(tx, char, weapon); err != nil {
			return fmt.Errorf("failed to update inventory: %w", err)
		}
		updated, err = tx.Characters.FindByUserID(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lookupError("character", err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
