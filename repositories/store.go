package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over one *gorm.DB handle. A Store obtained
// from Transaction runs every call inside that transaction.
type Store struct {
	db         *gorm.DB
	Users      UserRepository
	Characters CharacterRepository
	Team       TeamRepository
	Weapons    WeaponRepository
	Articles   ArticleRepository
	Games      GameRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Characters: NewCharacterRepository(db),
		Team:       NewTeamRepository(db),
		Weapons:    NewWeaponRepository(db),
		Articles:   NewArticleRepository(db),
		Games:      NewGameRepository(db),
	}
}

// WithContext returns a Store whose queries are bound to ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction runs fn inside a single database transaction. Returning an
// error from fn rolls back every mutation made through tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
