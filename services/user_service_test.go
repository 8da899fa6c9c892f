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

func strPtr(s string) *string { return &s }

func newUserService(t *testing.T) (services.UserService, *repositories.Store) {
	t.Helper()
	db := testutil.NewDB(t)
	database.SeedInitialData(db, "adminpass", zap.NewNop())
	store := repositories.NewStore(db)
	return services.NewUserService(store), store
}

func registerInput(username, email, char string) *services.RegisterInput {
	return &services.RegisterInput{
		Username:      username,
		Email:         email,
		Password:      "hunter22",
		Password2:     "hunter22",
		CharacterName: char,
	}
}

func TestRegister(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("leenik", "leenik@mynock.sw", "johnny"))
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotNil(t, user.Character)
	assert.Equal(t, "johnny", user.Character.Name)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	char, err := store.Characters.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "johnny", char.Name)
	assert.Equal(t, 1, char.Level)

	// Registered users get the player role, which carries no permissions.
	_, _, err = svc.ListUsers(ctx, user.ID, 1, 10)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestRegisterConflicts(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("leenik", "leenik@mynock.sw", "johnny"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   *services.RegisterInput
		message string
	}{
		{"duplicate username", registerInput("leenik", "other@mynock.sw", "other"), `username "leenik"`},
		{"duplicate email", registerInput("other", "leenik@mynock.sw", "other"), `email "leenik@mynock.sw"`},
		{"duplicate character", registerInput("other", "other@mynock.sw", "johnny"), `character "johnny"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			require.ErrorIs(t, err, services.ErrConflict)
			assert.Contains(t, err.Error(), tt.message)

			// Nothing from the failed registration is left behind.
			_, err = store.Users.FindByUsername("other")
			assert.Error(t, err)
		})
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	mismatch := registerInput("leenik", "leenik@mynock.sw", "johnny")
	mismatch.Password2 = "different"
	_, err := svc.Register(ctx, mismatch)
	require.ErrorIs(t, err, services.ErrInvalidInput)
	assert.Contains(t, err.Error(), "passwords do not match")

	_, err = svc.Register(ctx, registerInput("leenik", "not-an-email", "johnny"))
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.Register(ctx, registerInput("", "leenik@mynock.sw", "johnny"))
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.Register(ctx, registerInput("leenik", "leenik@mynock.sw", ""))
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput("leenik", "leenik@mynock.sw", "johnny"))
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "leenik", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "leenik", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestGetProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("leenik", "leenik@mynock.sw", "johnny"))
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, "leenik")
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.User.ID)
	assert.Contains(t, profile.Avatar, "https://www.gravatar.com/avatar/")
	assert.Contains(t, profile.Avatar, "s=128")
	require.NotNil(t, profile.Character)
	assert.Equal(t, "johnny", profile.Character.Name)
	assert.Empty(t, profile.Articles)

	// The seeded admin has no character.
	admin, err := svc.GetProfile(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, admin.Character)

	_, err = svc.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("leenik", "leenik@mynock.sw", "johnny"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerInput("bacta", "bacta@mynock.sw", "james"))
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, &services.UpdateProfileInput{
		Username:      strPtr("leenik2"),
		CharacterName: strPtr("johnny2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "leenik2", updated.Username)
	assert.Equal(t, "leenik@mynock.sw", updated.Email)

	char, err := store.Characters.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "johnny2", char.Name)

	_, err = svc.UpdateProfile(ctx, user.ID, &services.UpdateProfileInput{Username: strPtr("bacta")})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = svc.UpdateProfile(ctx, user.ID, &services.UpdateProfileInput{Email: strPtr("bacta@mynock.sw")})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = svc.UpdateProfile(ctx, user.ID, &services.UpdateProfileInput{CharacterName: strPtr("james")})
	assert.ErrorIs(t, err, services.ErrConflict)

	// Keeping the current values is not a conflict with oneself.
	_, err = svc.UpdateProfile(ctx, user.ID, &services.UpdateProfileInput{
		Username:      strPtr("leenik2"),
		CharacterName: strPtr("johnny2"),
	})
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, 9999, &services.UpdateProfileInput{Username: strPtr("ghost")})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateProfileCreatesMissingCharacter(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()

	admin, err := store.Users.FindByUsername("admin")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, admin.ID, &services.UpdateProfileInput{CharacterName: strPtr("overseer")})
	require.NoError(t, err)

	char, err := store.Characters.FindByUserID(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "overseer", char.Name)
}

func TestListUsers(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("leenik", "leenik@mynock.sw", "johnny"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerInput("bacta", "bacta@mynock.sw", "james"))
	require.NoError(t, err)

	admin, err := store.Users.FindByUsername("admin")
	require.NoError(t, err)

	users, total, err := svc.ListUsers(ctx, admin.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "bacta", users[1].Username)

	_, _, err = svc.ListUsers(ctx, 9999, 1, 10)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestTouchLastSeen(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("leenik", "leenik@mynock.sw", "johnny"))
	require.NoError(t, err)
	before := user.LastSeen

	require.NoError(t, svc.TouchLastSeen(ctx, user.ID))

	reloaded, err := store.Users.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.LastSeen.Before(before))
}
