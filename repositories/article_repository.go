package repositories

import (
	"guildhall/models"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(article *models.Article) error
	ListByAuthor(userID uint, limit int) ([]models.Article, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

// ListByAuthor returns the author's most recent articles first.
func (r *articleRepository) ListByAuthor(userID uint, limit int) ([]models.Article, error) {
	articles := []models.Article{}
	err := r.db.Where("user_id = ?", userID).
		Order("timestamp DESC").Order("id DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}
