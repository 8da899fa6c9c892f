package services_test

import (
	"context"
	"testing"

	"guildhall/database"
	"guildhall/models"
	"guildhall/repositories"
	"guildhall/services"
	"guildhall/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(i int) *int { return &i }

func weaponNames(weapons []models.Weapon) []string {
	names := make([]string, len(weapons))
	for i, w := range weapons {
		names[i] = w.Name
	}
	return names
}

func TestCreateCharacter(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewCharacterService(repositories.NewStore(db))
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "leenik", "johnny")
	fresh := testutil.CreateUser(t, db, "bacta", "")

	_, err := svc.CreateCharacter(ctx, owner.ID, "another")
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = svc.CreateCharacter(ctx, fresh.ID, "johnny")
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = svc.CreateCharacter(ctx, fresh.ID, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.CreateCharacter(ctx, 9999, "ghost")
	assert.ErrorIs(t, err, services.ErrNotFound)

	char, err := svc.CreateCharacter(ctx, fresh.ID, "james")
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, char.UserID)

	got, err := svc.GetCharacter(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "james", got.Name)
}

func TestGetCharacterMissing(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewCharacterService(repositories.NewStore(db))
	user := testutil.CreateUser(t, db, "leenik", "")

	_, err := svc.GetCharacter(context.Background(), user.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateCharacter(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewCharacterService(repositories.NewStore(db))
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "leenik", "johnny")
	testutil.CreateUser(t, db, "bacta", "james")

	char, err := svc.UpdateCharacter(ctx, user.ID, &services.UpdateCharacterInput{
		Level:       intPtr(3),
		Origin:      strPtr("Corellia"),
		CurrentRace: strPtr("Human"),
	})
	require.NoError(t, err)
	assert.Equal(t, "johnny", char.Name)
	assert.Equal(t, 3, char.Level)
	assert.Equal(t, "Corellia", char.Origin)

	got, err := svc.GetCharacter(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, "Human", got.CurrentRace)

	_, err = svc.UpdateCharacter(ctx, user.ID, &services.UpdateCharacterInput{Name: strPtr("james")})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = svc.UpdateCharacter(ctx, user.ID, &services.UpdateCharacterInput{Level: intPtr(0)})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestEquipAndUnequipWeapon(t *testing.T) {
	db := testutil.NewDB(t)
	database.SeedInitialData(db, "adminpass", zap.NewNop())
	svc := services.NewCharacterService(repositories.NewStore(db))
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "leenik", "johnny")

	char, err := svc.EquipWeapon(ctx, user.ID, "Longsword")
	require.NoError(t, err)
	assert.Equal(t, []string{"Longsword"}, weaponNames(char.Weapons))

	char, err = svc.EquipWeapon(ctx, user.ID, "Dagger")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dagger", "Longsword"}, weaponNames(char.Weapons))

	// Equipping twice keeps a single copy.
	char, err = svc.EquipWeapon(ctx, user.ID, "Dagger")
	require.NoError(t, err)
	assert.Len(t, char.Weapons, 2)

	char, err = svc.UnequipWeapon(ctx, user.ID, "Longsword")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dagger"}, weaponNames(char.Weapons))

	char, err = svc.UnequipWeapon(ctx, user.ID, "Warhammer")
	require.NoError(t, err)
	assert.Len(t, char.Weapons, 1)

	_, err = svc.EquipWeapon(ctx, user.ID, "Lightsaber")
	assert.ErrorIs(t, err, services.ErrNotFound)

	loner := testutil.CreateUser(t, db, "loner", "")
	_, err = svc.EquipWeapon(ctx, loner.ID, "Dagger")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
