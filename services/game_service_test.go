package services_test

import (
	"context"
	"testing"

	"guildhall/database"
	"guildhall/models"
	"guildhall/repositories"
	"guildhall/services"
	"guildhall/testutil"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type GameServiceSuite struct {
	suite.Suite
	ctx    context.Context
	games  services.GameService
	admin  *models.User
	gm     *models.User
	player *models.User
}

func (s *GameServiceSuite) SetupTest() {
	db := testutil.NewDB(s.T())
	database.SeedInitialData(db, "adminpass", zap.NewNop())
	store := repositories.NewStore(db)
	s.ctx = context.Background()
	s.games = services.NewGameService(store)

	var err error
	s.admin, err = store.Users.FindByUsername("admin")
	s.Require().NoError(err)

	s.gm = testutil.CreateUser(s.T(), db, "tryst", "jpc")
	s.Require().NoError(db.Model(s.gm).Update("gm_status", true).Error)
	s.player = testutil.CreateUser(s.T(), db, "leenik", "johnny")
}

func (s *GameServiceSuite) playerNames(game *models.Game) []string {
	names := make([]string, len(game.Players))
	for i, p := range game.Players {
		names[i] = p.Username
	}
	return names
}

func (s *GameServiceSuite) TestCreateSystemRequiresPermission() {
	_, err := s.games.CreateSystem(s.ctx, s.player.ID, &services.CreateSystemInput{Name: "D20"})
	s.ErrorIs(err, services.ErrForbidden)

	system, err := s.games.CreateSystem(s.ctx, s.admin.ID, &services.CreateSystemInput{Name: "D20", Description: "Roll high"})
	s.Require().NoError(err)
	s.NotZero(system.ID)

	_, err = s.games.CreateSystem(s.ctx, s.admin.ID, &services.CreateSystemInput{Name: "D20"})
	s.ErrorIs(err, services.ErrConflict)

	_, err = s.games.CreateSystem(s.ctx, s.admin.ID, &services.CreateSystemInput{})
	s.ErrorIs(err, services.ErrInvalidInput)
}

func (s *GameServiceSuite) TestCreateGame() {
	_, err := s.games.CreateSystem(s.ctx, s.admin.ID, &services.CreateSystemInput{Name: "D20"})
	s.Require().NoError(err)

	game, err := s.games.CreateGame(s.ctx, s.gm.ID, &services.CreateGameInput{Name: "Outer Rim", System: "D20", Capacity: 4})
	s.Require().NoError(err)
	s.Equal("tryst", game.GameMaster.Username)
	s.Require().NotNil(game.System)
	s.Equal("D20", game.System.Name)
	s.Empty(game.Players)

	_, err = s.games.CreateGame(s.ctx, s.player.ID, &services.CreateGameInput{Name: "Core Worlds", Capacity: 4})
	s.ErrorIs(err, services.ErrForbidden)

	_, err = s.games.CreateGame(s.ctx, s.gm.ID, &services.CreateGameInput{Name: "Core Worlds", System: "Fate", Capacity: 4})
	s.ErrorIs(err, services.ErrNotFound)

	_, err = s.games.CreateGame(s.ctx, s.gm.ID, &services.CreateGameInput{Name: "Outer Rim", Capacity: 4})
	s.ErrorIs(err, services.ErrConflict)

	_, err = s.games.CreateGame(s.ctx, s.gm.ID, &services.CreateGameInput{Name: "Core Worlds"})
	s.ErrorIs(err, services.ErrInvalidInput)

	games, err := s.games.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 1)
}

func (s *GameServiceSuite) TestJoinAndLeaveGame() {
	game, err := s.games.CreateGame(s.ctx, s.gm.ID, &services.CreateGameInput{Name: "Outer Rim", Capacity: 1})
	s.Require().NoError(err)

	joined, err := s.games.JoinGame(s.ctx, s.player.ID, game.ID)
	s.Require().NoError(err)
	s.Equal([]string{"leenik"}, s.playerNames(joined))

	joined, err = s.games.JoinGame(s.ctx, s.player.ID, game.ID)
	s.Require().NoError(err)
	s.Len(joined.Players, 1)

	_, err = s.games.JoinGame(s.ctx, s.admin.ID, game.ID)
	s.ErrorIs(err, services.ErrGameFull)

	_, err = s.games.JoinGame(s.ctx, s.gm.ID, game.ID)
	s.ErrorIs(err, services.ErrInvalidInput)

	left, err := s.games.LeaveGame(s.ctx, s.player.ID, game.ID)
	s.Require().NoError(err)
	s.Empty(left.Players)

	left, err = s.games.LeaveGame(s.ctx, s.player.ID, game.ID)
	s.Require().NoError(err)
	s.Empty(left.Players)

	_, err = s.games.JoinGame(s.ctx, s.player.ID, 9999)
	s.ErrorIs(err, services.ErrNotFound)
}

func TestGameService(t *testing.T) {
	suite.Run(t, new(GameServiceSuite))
}
