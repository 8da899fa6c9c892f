package repositories

import (
	"guildhall/models"

	"gorm.io/gorm"
)

type GameRepository interface {
	CreateSystem(system *models.System) error
	FindSystemByName(name string) (*models.System, error)
	CreateGame(game *models.Game) error
	FindGameByID(id uint) (*models.Game, error)
	ListGames() ([]models.Game, error)
	CountPlayers(game *models.Game) (int64, error)
	IsPlayer(game *models.Game, userID uint) (bool, error)
	AddPlayer(game *models.Game, user *models.User) error
	RemovePlayer(game *models.Game, user *models.User) error
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) CreateSystem(system *models.System) error {
	return r.db.Omit("Games").Create(system).Error
}

func (r *gameRepository) FindSystemByName(name string) (*models.System, error) {
	var system models.System
	if err := r.db.Where("name = ?", name).First(&system).Error; err != nil {
		return nil, err
	}
	return &system, nil
}

func (r *gameRepository) CreateGame(game *models.Game) error {
	return r.db.Omit("GameMaster", "System", "Players").Create(game).Error
}

func (r *gameRepository) FindGameByID(id uint) (*models.Game, error) {
	var game models.Game
	err := r.db.Preload("System").Preload("GameMaster").Preload("Players").First(&game, id).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) ListGames() ([]models.Game, error) {
	games := []models.Game{}
	err := r.db.Preload("System").Preload("GameMaster").Preload("Players").Order("name").Find(&games).Error
	return games, err
}

func (r *gameRepository) CountPlayers(game *models.Game) (int64, error) {
	assoc := r.db.Model(game).Association("Players")
	count := assoc.Count()
	return count, assoc.Error
}

func (r *gameRepository) IsPlayer(game *models.Game, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("user_games").
		Where("game_id = ? AND user_id = ?", game.ID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *gameRepository) AddPlayer(game *models.Game, user *models.User) error {
	return r.db.Model(game).Association("Players").Append(user)
}

func (r *gameRepository) RemovePlayer(game *models.Game, user *models.User) error {
	return r.db.Model(game).Association("Players").Delete(user)
}
