package repositories

import (
	"guildhall/models"

	"gorm.io/gorm"
)

type WeaponRepository interface {
	Create(weapon *models.Weapon) error
	FindByName(name string) (*models.Weapon, error)
	FindAll() ([]models.Weapon, error)
}

type weaponRepository struct {
	db *gorm.DB
}

func NewWeaponRepository(db *gorm.DB) WeaponRepository {
	return &weaponRepository{db: db}
}

func (r *weaponRepository) Create(weapon *models.Weapon) error {
	return r.db.Create(weapon).Error
}

func (r *weaponRepository) FindByName(name string) (*models.Weapon, error) {
	var weapon models.Weapon
	if err := r.db.Where("name = ?", name).First(&weapon).Error; err != nil {
		return nil, err
	}
	return &weapon, nil
}

func (r *weaponRepository) FindAll() ([]models.Weapon, error) {
	weapons := []models.Weapon{}
	err := r.db.Order("name").Find(&weapons).Error
	return weapons, err
}
