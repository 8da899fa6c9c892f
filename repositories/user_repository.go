package repositories

import (
	"fmt"
	"time"

	"guildhall/models"

	"gorm.io/gorm"
)

// UserRepository covers accounts and their RBAC roles.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	FindAll(page int, pageSize int) ([]models.User, int64, error)
	TouchLastSeen(id uint, at time.Time) error
	AssignRole(user *models.User, roleName string) error
	HasPermissions(id uint, requiredPermissions ...string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// findOne returns gorm.ErrRecordNotFound when no user matches.
func (r *userRepository) findOne(query interface{}, args ...interface{}) (*models.User, error) {
	user := new(models.User)
	if err := r.db.Where(query, args...).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	return r.findOne("id = ?", id)
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	return r.findOne("username = ?", username)
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	return r.findOne("email = ?", email)
}

// Update saves the user's own columns; associations are not touched.
func (r *userRepository) Update(user *models.User) error {
	return r.db.Omit("Character", "Articles", "Roles").Save(user).Error
}

// FindAll returns one page of users ordered by username plus the total count.
// Pages start at 1.
func (r *userRepository) FindAll(page int, pageSize int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	err := r.db.Order("username").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// TouchLastSeen updates last_seen without bumping updated_at.
func (r *userRepository) TouchLastSeen(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_seen", at).Error
}

func (r *userRepository) AssignRole(user *models.User, roleName string) error {
	var role models.Role
	if err := r.db.Where("name = ?", roleName).First(&role).Error; err != nil {
		return fmt.Errorf("find role %q: %w", roleName, err)
	}
	return r.db.Model(user).Association("Roles").Append(&role)
}

// HasPermissions reports whether the user's roles grant every named
// permission. An unknown user yields gorm.ErrRecordNotFound.
func (r *userRepository) HasPermissions(id uint, requiredPermissions ...string) (bool, error) {
	if len(requiredPermissions) == 0 {
		return true, nil
	}
	if _, err := r.FindByID(id); err != nil {
		return false, err
	}

	var granted int64
	err := r.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ? AND permissions.name IN ?", id, requiredPermissions).
		Distinct("permissions.name").
		Count(&granted).Error
	if err != nil {
		return false, fmt.Errorf("check permissions for user %d: %w", id, err)
	}
	return int(granted) >= len(distinct(requiredPermissions)), nil
}

func distinct(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
