package repositories

import (
	"guildhall/models"

	"gorm.io/gorm"
)

type CharacterRepository interface {
	Create(char *models.Character) error
	FindByUserID(userID uint) (*models.Character, error)
	FindByName(name string) (*models.Character, error)
	Update(char *models.Character) error
	AddWeapon(char *models.Character, weapon *models.Weapon) error
	RemoveWeapon(char *models.Character, weapon *models.Weapon) error
}

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(char *models.Character) error {
	return r.db.Omit("Weapons").Create(char).Error
}

// FindByUserID returns the user's character with its inventory loaded.
func (r *characterRepository) FindByUserID(userID uint) (*models.Character, error) {
	var char models.Character
	result := r.db.Preload("Weapons", func(db *gorm.DB) *gorm.DB {
		return db.Order("weapons.name")
	}).Where("user_id = ?", userID).First(&char)
	if result.Error != nil {
		return nil, result.Error
	}
	return &char, nil
}

func (r *characterRepository) FindByName(name string) (*models.Character, error) {
	var char models.Character
	result := r.db.Where("name = ?", name).First(&char)
	if result.Error != nil {
		return nil, result.Error
	}
	return &char, nil
}

func (r *characterRepository) Update(char *models.Character) error {
	return r.db.Omit("Weapons").Save(char).Error
}

// AddWeapon appends to the inventory; a weapon already held is kept once.
func (r *characterRepository) AddWeapon(char *models.Character, weapon *models.Weapon) error {
	return r.db.Model(char).Association("Weapons").Append(weapon)
}

func (r *characterRepository) RemoveWeapon(char *models.Character, weapon *models.Weapon) error {
	return r.db.Model(char).Association("Weapons").Delete(weapon)
}
