package repositories

import (
	"guildhall/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository stores the directed teammate edges between users.
type TeamRepository interface {
	Exists(fromID, toID uint) (bool, error)
	Insert(fromID, toID uint) error
	Remove(fromID, toID uint) error
	CountFrom(fromID uint) (int64, error)
	Team(userID uint) ([]models.User, error)
	Teammates(userID uint) ([]models.User, error)
	TeamCharacters(userID uint) ([]models.Character, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Exists(fromID, toID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Teammate{}).
		Where("team_member_id = ? AND teammate_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, err
}

// Insert adds the edge fromID -> toID. An existing edge is left as is.
func (r *teamRepository) Insert(fromID, toID uint) error {
	edge := models.Teammate{TeamMemberID: fromID, TeammateID: toID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}

// Remove deletes the edge fromID -> toID; deleting a missing edge is not an error.
func (r *teamRepository) Remove(fromID, toID uint) error {
	return r.db.Where("team_member_id = ? AND teammate_id = ?", fromID, toID).
		Delete(&models.Teammate{}).Error
}

func (r *teamRepository) CountFrom(fromID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Teammate{}).Where("team_member_id = ?", fromID).Count(&count).Error
	return count, err
}

// Team lists the users userID has added to their team.
func (r *teamRepository) Team(userID uint) ([]models.User, error) {
	users := []models.User{}
	err := r.db.
		Joins("JOIN teammates ON teammates.teammate_id = users.id").
		Where("teammates.team_member_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	return users, err
}

// Teammates lists the users who have added userID to their team.
func (r *teamRepository) Teammates(userID uint) ([]models.User, error) {
	users := []models.User{}
	err := r.db.
		Joins("JOIN teammates ON teammates.team_member_id = users.id").
		Where("teammates.teammate_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	return users, err
}

// TeamCharacters returns userID's own character together with the characters
// of every user userID has an outgoing edge to, newest name first. Each
// character appears once even if its owner is reachable several ways.
func (r *teamRepository) TeamCharacters(userID uint) ([]models.Character, error) {
	chars := []models.Character{}
	targets := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Teammate{}).
		Select("teammate_id").
		Where("team_member_id = ?", userID)

	err := r.db.
		Where("user_id = ?", userID).
		Or("user_id IN (?)", targets).
		Order("name DESC").
		Find(&chars).Error
	return chars, err
}
