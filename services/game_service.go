package services

import (
	"context"
	"fmt"

	"guildhall/models"
	"guildhall/repositories"
)

type GameService interface {
	CreateSystem(ctx context.Context, actorID uint, input *CreateSystemInput) (*models.System, error)
	CreateGame(ctx context.Context, actorID uint, input *CreateGameInput) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	JoinGame(ctx context.Context, actorID, gameID uint) (*models.Game, error)
	LeaveGame(ctx context.Context, actorID, gameID uint) (*models.Game, error)
}

type CreateSystemInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=255"`
}

type CreateGameInput struct {
	Name     string `json:"name" validate:"required,max=64"`
	System   string `json:"system" description:"Name of an existing system (optional)"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

type gameService struct {
	store *repositories.Store
}

var _ GameService = (*gameService)(nil)

func NewGameService(store *repositories.Store) GameService {
	return &gameService{store: store}
}

// CreateSystem registers a rule system.
// Permissions: "games:manage"
func (s *gameService) CreateSystem(ctx context.Context, actorID uint, input *CreateSystemInput) (*models.System, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	system := &models.System{Name: input.Name, Description: input.Description}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		allowed, err := tx.Users.HasPermissions(actorID, "games:manage")
		if err != nil {
			return lookupError("user", err)
		}
		if !allowed {
			return fmt.Errorf("%w: you need 'games:manage' permission", ErrForbidden)
		}
		_, err = tx.Games.FindSystemByName(input.Name)
		if err := requireAbsent(fmt.Sprintf("system %q", input.Name), err); err != nil {
			return err
		}
		if err := tx.Games.CreateSystem(system); err != nil {
			return writeError("system", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return system, nil
}

// CreateGame opens a game run by the actor, who must have GM status.
func (s *gameService) CreateGame(ctx context.Context, actorID uint, input *CreateGameInput) (*models.Game, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var created *models.Game
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		gm, err := tx.Users.FindByID(actorID)
		if err != nil {
			return lookupError("user", err)
		}
		if !gm.GMStatus {
			return fmt.Errorf("%w: only game masters can create games", ErrForbidden)
		}

		game := &models.Game{Name: input.Name, GameMasterID: gm.ID, Capacity: input.Capacity}
		if input.System != "" {
			system, err := tx.Games.FindSystemByName(input.System)
			if err != nil {
				return lookupError(fmt.Sprintf("system %q", input.System), err)
			}
			game.SystemID = &system.ID
		}

		if err := tx.Games.CreateGame(game); err != nil {
			return writeError(fmt.Sprintf("game %q", input.Name), err)
		}
		created, err = tx.Games.FindGameByID(game.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *gameService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.store.WithContext(ctx).Games.ListGames()
	if err != nil {
		return nil, fmt.Errorf("database error retrieving games: %w", err)
	}
	return games, nil
}

// JoinGame seats the actor as a player. Joining a game already joined is a
// no-op; a full game rejects new players with ErrGameFull.
func (s *gameService) JoinGame(ctx context.Context, actorID, gameID uint) (*models.Game, error) {
	return s.changeSeat(ctx, actorID, gameID, func(tx *repositories.Store, game *models.Game, player *models.User, seated bool) error {
		if seated {
			return nil
		}
		if game.GameMasterID == player.ID {
			return fmt.Errorf("%w: the game master cannot join as a player", ErrInvalidInput)
		}
		count, err := tx.Games.CountPlayers(game)
		if err != nil {
			return fmt.Errorf("database error counting players: %w", err)
		}
		if int(count) >= game.Capacity {
			return fmt.Errorf("game %q %w", game.Name, ErrGameFull)
		}
		return tx.Games.AddPlayer(game, player)
	})
}

// LeaveGame frees the actor's seat; leaving a game not joined is a no-op.
func (s *gameService) LeaveGame(ctx context.Context, actorID, gameID uint) (*models.Game, error) {
	return s.changeSeat(ctx, actorID, gameID, func(tx *repositories.Store, game *models.Game, player *models.User, seated bool) error {
		if !seated {
			return nil
		}
		return tx.Games.RemovePlayer(game, player)
	})
}

func (s *gameService) changeSeat(ctx context.Context, actorID, gameID uint,
	change func(tx *repositories.Store, game *models.Game, player *models.User, seated bool) error) (*models.Game, error) {
	var updated *models.Game
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		player, err := tx.Users.FindByID(actorID)
		if err != nil {
			return lookupError("user", err)
		}
		game, err := tx.Games.FindGameByID(gameID)
		if err != nil {
			return lookupError(fmt.Sprintf("game %d", gameID), err)
		}
		seated, err := tx.Games.IsPlayer(game, player.ID)
		if err != nil {
			return fmt.Errorf("database error checking players: %w", err)
		}
		if err := change(tx, game, player, seated); err != nil {
			return err
		}
		updated, err = tx.Games.FindGameByID(gameID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
