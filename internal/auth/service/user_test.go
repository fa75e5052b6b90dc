package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/notify"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	admin := env.seedUser(t, "admin@example.com", goodPassword, domain.RoleAdmin, domain.StatusActivated)
	mod := env.seedUser(t, "mod@example.com", goodPassword, domain.RoleModerator, domain.StatusActivated)
	otherMod := env.seedUser(t, "mod2@example.com", goodPassword, domain.RoleModerator, domain.StatusActivated)
	user := env.seedUser(t, "user@example.com", goodPassword, domain.RoleUser, domain.StatusActivated)

	t.Run("moderator cannot touch moderator", func(t *testing.T) {
		_, err := env.users.UpdateStatus(ctx, otherMod.ID, domain.StatusBlocked, mod.Email)
		require.ErrorIs(t, err, ErrLowRoleLevel)
		de, _ := AsError(err)
		require.Equal(t, KindLowRoleLevel, de.Kind)
	})

	t.Run("moderator cannot touch admin", func(t *testing.T) {
		_, err := env.users.UpdateStatus(ctx, admin.ID, domain.StatusBlocked, mod.Email)
		require.ErrorIs(t, err, ErrLowRoleLevel)
	})

	t.Run("moderator updates user", func(t *testing.T) {
		got, err := env.users.UpdateStatus(ctx, user.ID, domain.StatusBlocked, mod.Email)
		require.NoError(t, err)
		require.Equal(t, domain.StatusBlocked, got.Status)

		stored, err := env.store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusBlocked, stored.Status)
	})

	t.Run("admin updates moderator", func(t *testing.T) {
		_, err := env.users.UpdateStatus(ctx, otherMod.ID, domain.StatusDeactivated, admin.Email)
		require.NoError(t, err)
	})

	t.Run("self update rejected", func(t *testing.T) {
		_, err := env.users.UpdateStatus(ctx, admin.ID, domain.StatusBlocked, admin.Email)
		require.ErrorIs(t, err, ErrBadUpdateRequest)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := env.users.UpdateStatus(ctx, 4242, domain.StatusBlocked, admin.Email)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	admin := env.seedUser(t, "admin@example.com", goodPassword, domain.RoleAdmin, domain.StatusActivated)
	user := env.seedUser(t, "user@example.com", goodPassword, domain.RoleUser, domain.StatusActivated)

	_, err := env.users.UpdateRole(ctx, 4242, domain.RoleModerator, admin.Email)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.users.UpdateRole(ctx, admin.ID, domain.RoleUser, admin.Email)
	require.ErrorIs(t, err, ErrBadUpdateRequest)

	got, err := env.users.UpdateRole(ctx, user.ID, domain.RoleModerator, admin.Email)
	require.NoError(t, err)
	require.Equal(t, domain.RoleModerator, got.Role)

	// New access tokens carry the new role.
	res := signIn(t, env, "user@example.com")
	claims, err := env.tokens.ParseAccessToken(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, string(domain.RoleModerator), claims.Role)
}

func TestDeactivateAndActivate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	u := env.seedUser(t, "u@example.com", goodPassword, domain.RoleUser, domain.StatusActivated)
	reasons := []string{"{en}Spam{en}", "{ua}Спам{ua}"}

	require.NoError(t, env.users.DeactivateUser(ctx, u.ID, reasons))

	stored, err := env.store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDeactivated, stored.Status)

	ev := env.lastEvent(t, notify.EventDeactivation, "u@example.com")
	require.Equal(t, []string{"Spam"}, ev.Reasons)
	require.Equal(t, domain.LangEN, ev.Lang)

	_, err = env.own.SignIn(ctx, "u@example.com", goodPassword)
	require.ErrorIs(t, err, ErrUserDeactivated)

	got, err := env.users.GetDeactivationReason(ctx, u.ID, "uk")
	require.NoError(t, err)
	require.Equal(t, []string{"Спам"}, got)

	got, err = env.users.GetDeactivationReason(ctx, u.ID, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Spam"}, got)

	_, err = env.users.GetDeactivationReason(ctx, 4242, "en")
	require.ErrorIs(t, err, ErrNotFound)

	activated, err := env.users.SetActivatedStatus(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActivated, activated.Status)
	env.lastEvent(t, notify.EventActivation, "u@example.com")

	_, err = env.own.SignIn(ctx, "u@example.com", goodPassword)
	require.NoError(t, err)

	require.ErrorIs(t, env.users.DeactivateUser(ctx, 4242, reasons), ErrNotFound)
}

func TestDeactivateAllAndCount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	a := env.seedUser(t, "a@example.com", goodPassword, domain.RoleUser, domain.StatusActivated)
	b := env.seedUser(t, "b@example.com", goodPassword, domain.RoleUser, domain.StatusActivated)
	env.seedUser(t, "c@example.com", goodPassword, domain.RoleUser, domain.StatusActivated)

	n, err := env.users.CountActivatedUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	ids, err := env.users.DeactivateAllUsers(ctx, []int64{a.ID, b.ID, 4242})
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{a.ID, b.ID}, ids)

	n, err = env.users.CountActivatedUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	ids, err = env.users.DeactivateAllUsers(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestCurrentUserAndLanguage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.own.SignUp(ctx, SignUpInput{Name: "Olena", Email: "olena@example.com", Password: goodPassword}, "ua")
	require.NoError(t, err)

	u, err := env.users.GetCurrentUser(ctx, "Olena@example.com")
	require.NoError(t, err)
	require.Equal(t, "Olena", u.Name)

	lang, err := env.users.GetLanguage(ctx, "olena@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.LangUA, lang)

	_, err = env.users.GetCurrentUser(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrWrongEmail)

	require.Equal(t, domain.Roles, env.users.Roles())
}
