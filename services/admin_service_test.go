package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scouting-system/duplicates"
	"github.com/Dosada05/scouting-system/models"
)

func TestAdminUserService_ListUsers(t *testing.T) {
	repo := newFakeUserRepo(
		models.User{ID: "a", Role: models.RoleAdmin, PasswordHash: "secret"},
		models.User{ID: "b", Role: models.RoleScout, PasswordHash: "secret"},
	)
	svc := NewAdminUserService(repo, nil)

	got, err := svc.ListUsers(context.Background(), models.UserFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, maxUsersPageSize, got.Limit)
	assert.Equal(t, 2, got.TotalCount)
	for _, u := range got.Users {
		assert.Empty(t, u.PasswordHash)
	}

	role := "scout"
	got, err = svc.ListUsers(context.Background(), models.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, defaultUsersPageSize, got.Limit)
	require.Len(t, got.Users, 1)
	assert.Equal(t, "b", got.Users[0].ID)

	bad := "owner"
	_, err = svc.ListUsers(context.Background(), models.UserFilter{Role: &bad})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAdminUserService_SelfActionsAreForbidden(t *testing.T) {
	repo := newFakeUserRepo(models.User{ID: "me", Role: models.RoleAdmin, Active: true})
	svc := NewAdminUserService(repo, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateRole(ctx, "me", "me", models.RoleScout), ErrForbiddenOperation)
	assert.ErrorIs(t, svc.SetActive(ctx, "me", "me", false), ErrForbiddenOperation)
	assert.ErrorIs(t, svc.DeleteUser(ctx, "me", "me"), ErrForbiddenOperation)
	assert.NoError(t, svc.SetActive(ctx, "me", "me", true))
}

func TestAdminUserService_ManageOtherUsers(t *testing.T) {
	repo := newFakeUserRepo(models.User{ID: "me", Role: models.RoleAdmin}, models.User{ID: "other", Role: models.RoleScout, Active: true})
	sessions := NewSessionStore()
	sessions.SetIncludeArchived("other", true)
	svc := NewAdminUserService(repo, sessions)
	ctx := context.Background()

	require.NoError(t, svc.UpdateRole(ctx, "me", "other", models.RoleAdmin))
	assert.Equal(t, models.RoleAdmin, repo.users["other"].Role)
	assert.ErrorIs(t, svc.UpdateRole(ctx, "me", "other", "owner"), ErrInvalidRole)

	require.NoError(t, svc.SetActive(ctx, "me", "other", false))
	assert.False(t, repo.users["other"].Active)

	require.NoError(t, svc.DeleteUser(ctx, "me", "other"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, "me", "other"), ErrUserNotFound)
	assert.False(t, sessions.IncludeArchived("other"))
}

func TestSessionStore_ClearKeepsOtherGroups(t *testing.T) {
	store := NewSessionStore()
	groups := []duplicates.Group{
		{Key: "a", Members: []models.Player{{ID: 1, Name: "A"}, {ID: 2, Name: "A"}}},
		{Key: "b", Members: []models.Player{{ID: 3, Name: "B"}, {ID: 4, Name: "B"}}},
	}

	_, err := store.Update("admin", groups, func(ss duplicates.Sessions) (duplicates.Sessions, error) {
		next := ss
		for _, g := range groups {
			next = next.With(next.Get(g).ToggleDuplicate(g.Members[1].ID))
		}
		return next, nil
	})
	require.NoError(t, err)

	store.Clear("admin", "a")
	got, err := store.Update("admin", groups, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, got["a"].Selected)
	assert.Empty(t, got["b"].Selected)
}
