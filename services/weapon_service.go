package services

import (
	"context"
	"fmt"

	"guildhall/models"
	"guildhall/repositories"
)

type WeaponService interface {
	ListWeapons(ctx context.Context) ([]models.Weapon, error)
	CreateWeapon(ctx context.Context, actorID uint, input *CreateWeaponInput) (*models.Weapon, error)
}

type CreateWeaponInput struct {
	Name       string `json:"name" validate:"required,max=64"`
	Damage     string `json:"damage" validate:"max=64"`
	Range      int    `json:"range" validate:"min=0"`
	MaxRange   int    `json:"max_range" validate:"min=0,gtefield=Range"`
	Weight     int    `json:"weight" validate:"min=0"`
	WType      string `json:"w_type" validate:"max=64"`
	AType      string `json:"a_type" validate:"max=64"`
	Properties string `json:"properties" validate:"max=128"`
}

type weaponService struct {
	store *repositories.Store
}

var _ WeaponService = (*weaponService)(nil)

func NewWeaponService(store *repositories.Store) WeaponService {
	return &weaponService{store: store}
}

func (s *weaponService) ListWeapons(ctx context.Context) ([]models.Weapon, error) {
	weapons, err := s.store.WithContext(ctx).Weapons.FindAll()
	if err != nil {
		return nil, fmt.Errorf("database error retrieving weapons: %w", err)
	}
	return weapons, nil
}

// CreateWeapon adds a weapon to the catalog.
// Permissions: "weapons:manage"
func (s *weaponService) CreateWeapon(ctx context.Context, actorID uint, input *CreateWeaponInput) (*models.Weapon, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	weapon := &models.Weapon{
		Name:       input.Name,
		Damage:     input.Damage,
		Range:      input.Range,
		MaxRange:   input.MaxRange,
		Weight:     input.Weight,
		WType:      input.WType,
		AType:      input.AType,
		Properties: input.Properties,
	}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		allowed, err := tx.Users.HasPermissions(actorID, "weapons:manage")
		if err != nil {
			return lookupError("user", err)
		}
		if !allowed {
			return fmt.Errorf("%w: you need 'weapons:manage' permission", ErrForbidden)
		}
		_, err = tx.Weapons.FindByName(input.Name)
		if err := requireAbsent(fmt.Sprintf("weapon %q", input.Name), err); err != nil {
			return err
		}
		if err := tx.Weapons.Create(weapon); err != nil {
			return writeError("weapon", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return weapon, nil
}
