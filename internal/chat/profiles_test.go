package chat

import (
	"context"
	"hudori/internal/database"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	alice := mustProfile(t, svc, "alice")
	assert.NotEmpty(t, alice.ID)
	assert.Empty(t, alice.Servers)
	assert.NotNil(t, alice.Servers)

	res, err := svc.CreateProfile(ctx, NewProfile{UserId: "user_alice", Username: "other"})
	require.NoError(t, err)
	assert.Equal(t, KindConflict, res.Kind)

	res, err = svc.CreateProfile(ctx, NewProfile{UserId: "user_new", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, KindConflict, res.Kind)
	assert.Equal(t, "Username is already taken.", res.Error)

	res, err = svc.CreateProfile(ctx, NewProfile{UserId: "user_bob", Username: "bob", Email: "not-an-email"})
	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)

	res, err = svc.CreateProfile(ctx, NewProfile{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, NameMissingInfo, res.Name)
	assert.Nil(t, res.Data)
}

func TestUpdateProfileOnlyWritesSuppliedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	mustProfile(t, svc, "bob")

	name := "Alice Liddell"
	res, err := svc.UpdateProfileByID(ctx, alice.ID, ProfilePatch{Name: &name})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)

	got, err := svc.GetProfileByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", got.Data.Name)
	assert.Equal(t, "alice", got.Data.Username)
	assert.Equal(t, "alice@example.com", got.Data.Email)
	assert.True(t, got.Data.UpdatedAt.After(got.Data.CreatedAt))

	res, err = svc.UpdateStatusByUserID(ctx, "user_alice", "away")
	require.NoError(t, err)
	assert.Equal(t, "away", res.Data.Status)

	taken := "bob"
	res, err = svc.UpdateProfileByUserID(ctx, "user_alice", ProfilePatch{Username: &taken})
	require.NoError(t, err)
	assert.Equal(t, KindConflict, res.Kind)

	res, err = svc.UpdateProfileByUserID(ctx, "user_nobody", ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, "Profile not found", res.Error)
}

func TestProfileLookups(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")

	res, err := svc.GetProfileByUserID(ctx, "user_bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, res.Data.ID)

	res, err = svc.GetProfileByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.Data.ID)

	res, err = svc.GetProfileByID(ctx, "servers:"+alice.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Data)
	assert.Equal(t, KindNotFound, res.Kind)

	details := mustServer(t, svc, alice, "Test")
	res, err = svc.GetProfileByMemberID(ctx, creatorMember(t, details).ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.Data.ID)

	batch, err := svc.GetProfilesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.False(t, batch.OK())
	assert.Equal(t, KindValidation, batch.Kind)

	batch, err = svc.GetProfilesByIDs(ctx, []string{bob.ID, "profiles:gone", alice.ID})
	require.NoError(t, err)
	require.Len(t, batch.Data, 2)
	assert.Equal(t, bob.ID, batch.Data[0].ID)
	assert.Equal(t, alice.ID, batch.Data[1].ID)
}

func TestDeleteProfileDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	details := mustServer(t, svc, alice, "Test")

	res, err := svc.DeleteProfileByUserID(ctx, "user_alice")
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)

	res, err = svc.DeleteProfileByUserID(ctx, "user_alice")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)

	member, err := svc.GetMemberByID(ctx, creatorMember(t, details).ID)
	require.NoError(t, err)
	assert.True(t, member.OK())
}

func TestDeleteAllProfiles(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustProfile(t, svc, "alice")
	mustProfile(t, svc, "bob")

	_, err := svc.DeleteAllProfiles(ctx, "wrong")
	assert.ErrorIs(t, err, ErrAccessDenied)

	res, err := svc.DeleteAllProfiles(ctx, testAdminSecret)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Data)

	got, err := svc.GetProfileByUserID(ctx, "user_alice")
	require.NoError(t, err)
	assert.Nil(t, got.Data)
}

func TestDeleteAllProfilesDisabledWithoutSecret(t *testing.T) {
	svc := New(database.NewMemory())
	_, err := svc.DeleteAllProfiles(context.Background(), "")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestHandleIdentityEvent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.HandleIdentityEvent(ctx, IdentityEvent{
		Type:     IdentityCreated,
		UserId:   "user_1",
		Username: "carol",
		Email:    "carol@example.com",
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)

	res, err = svc.HandleIdentityEvent(ctx, IdentityEvent{Type: IdentityUpdated, UserId: "user_1", ImageUrl: "https://cdn/carol.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/carol.png", res.Data.ImageUrl)
	assert.Equal(t, "carol", res.Data.Username)

	res, err = svc.HandleIdentityEvent(ctx, IdentityEvent{Type: "session.ended", UserId: "user_1"})
	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)

	res, err = svc.HandleIdentityEvent(ctx, IdentityEvent{Type: IdentityDeleted, UserId: "user_1"})
	require.NoError(t, err)
	assert.True(t, res.OK())

	got, err := svc.GetProfileByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.Nil(t, got.Data)
}

func TestSyncIdentityKeepsInAppUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.SyncIdentity(ctx, IdentityEvent{UserId: "google-42", Username: "dave", Name: "Dave"})
	require.NoError(t, err)
	require.True(t, first.OK(), first.Error)

	renamed := "davey"
	_, err = svc.UpdateProfileByID(ctx, first.Data.ID, ProfilePatch{Username: &renamed})
	require.NoError(t, err)

	second, err := svc.SyncIdentity(ctx, IdentityEvent{UserId: "google-42", Username: "dave", Name: "David"})
	require.NoError(t, err)
	require.True(t, second.OK(), second.Error)
	assert.Equal(t, first.Data.ID, second.Data.ID)
	assert.Equal(t, "davey", second.Data.Username)
	assert.Equal(t, "David", second.Data.Name)
}

func TestSyncIdentitySuffixesTakenUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	google, err := svc.SyncIdentity(ctx, IdentityEvent{UserId: "google-1", Username: "john"})
	require.NoError(t, err)
	require.True(t, google.OK(), google.Error)
	assert.Equal(t, "john", google.Data.Username)

	discord, err := svc.SyncIdentity(ctx, IdentityEvent{UserId: "discord-9", Username: "john"})
	require.NoError(t, err)
	require.True(t, discord.OK(), discord.Error)
	assert.NotEqual(t, "john", discord.Data.Username)
	assert.True(t, strings.HasPrefix(discord.Data.Username, "john_"), discord.Data.Username)
	assert.NotEqual(t, google.Data.ID, discord.Data.ID)

	// The webhook path still reports the collision.
	res, err := svc.HandleIdentityEvent(ctx, IdentityEvent{Type: IdentityCreated, UserId: "ext-3", Username: "john"})
	require.NoError(t, err)
	assert.Equal(t, KindConflict, res.Kind)
}
