package services_test

import (
	"context"
	"testing"

	"guildhall/database"
	"guildhall/repositories"
	"guildhall/services"
	"guildhall/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWeaponCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	database.SeedInitialData(db, "adminpass", zap.NewNop())
	store := repositories.NewStore(db)
	svc := services.NewWeaponService(store)
	ctx := context.Background()

	admin, err := store.Users.FindByUsername("admin")
	require.NoError(t, err)
	player := testutil.CreateUser(t, db, "leenik", "johnny")

	weapons, err := svc.ListWeapons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dagger", "Longsword", "Shortbow", "Warhammer"}, weaponNames(weapons))

	input := &services.CreateWeaponInput{Name: "Blaster", Damage: "3d6", Range: 30, MaxRange: 90, AType: "ranged"}

	_, err = svc.CreateWeapon(ctx, player.ID, input)
	assert.ErrorIs(t, err, services.ErrForbidden)

	weapon, err := svc.CreateWeapon(ctx, admin.ID, input)
	require.NoError(t, err)
	assert.NotZero(t, weapon.ID)

	_, err = svc.CreateWeapon(ctx, admin.ID, input)
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = svc.CreateWeapon(ctx, admin.ID, &services.CreateWeaponInput{Name: "Sling", Range: 30, MaxRange: 10})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	weapons, err = svc.ListWeapons(ctx)
	require.NoError(t, err)
	assert.Len(t, weapons, 5)
}
