package repositories_test

import (
	"testing"

	"guildhall/models"
	"guildhall/repositories"
	"guildhall/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamePlayers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewGameRepository(db)
	gm := testutil.CreateUser(t, db, "gm", "")
	player := testutil.CreateUser(t, db, "leenik", "")

	system := &models.System{Name: "Fifth Edition"}
	require.NoError(t, repo.CreateSystem(system))
	found, err := repo.FindSystemByName("Fifth Edition")
	require.NoError(t, err)
	assert.Equal(t, system.ID, found.ID)

	game := &models.Game{Name: "Tuesday Night", SystemID: &system.ID, GameMasterID: gm.ID, Capacity: 4}
	require.NoError(t, repo.CreateGame(game))

	require.NoError(t, repo.AddPlayer(game, player))
	count, err := repo.CountPlayers(game)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	ok, err := repo.IsPlayer(game, player.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := repo.FindGameByID(game.ID)
	require.NoError(t, err)
	assert.Equal(t, "gm", loaded.GameMaster.Username)
	require.NotNil(t, loaded.System)
	assert.Equal(t, "Fifth Edition", loaded.System.Name)
	require.Len(t, loaded.Players, 1)

	require.NoError(t, repo.RemovePlayer(game, player))
	ok, err = repo.IsPlayer(game, player.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	games, err := repo.ListGames()
	require.NoError(t, err)
	assert.Len(t, games, 1)
}
