package chat

import (
	"context"
	"hudori/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMember(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")
	details := mustServer(t, svc, alice, "Test")

	res, err := svc.CreateMember(ctx, "OWNER", bob.ID, details.ID)
	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)

	res, err = svc.CreateMember(ctx, "CREATOR", bob.ID, details.ID)
	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)

	res, err = svc.CreateMember(ctx, "guest", bob.ID, details.ID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, models.RoleGuest, res.Data.Role)

	res, err = svc.CreateMember(ctx, "ADMIN", bob.ID, details.ID)
	require.NoError(t, err)
	assert.Equal(t, KindConflict, res.Kind)

	res, err = svc.CreateMember(ctx, "GUEST", bob.ID, "servers:ghost")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)

	requireListsConsistent(t, store, details.ID)

	found, err := svc.GetMemberByServerIDAndProfileID(ctx, details.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, found.Data.Role)

	members, err := svc.GetMembersByServerID(ctx, details.ID)
	require.NoError(t, err)
	require.Len(t, members.Data, 2)
	assert.Equal(t, models.RoleCreator, members.Data[0].Role)
}

func TestCreatorMembershipIsProtected(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	details := mustServer(t, svc, alice, "Test")
	creator := creatorMember(t, details)

	for _, role := range []string{"ADMIN", "MODERATOR", "GUEST", "CREATOR"} {
		res, err := svc.UpdateRoleByID(ctx, creator.ID, role)
		require.NoError(t, err)
		assert.False(t, res.OK(), role)
	}

	res, err := svc.DeleteMemberByID(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, KindAuthorization, res.Kind)

	left, err := svc.LeaveServer(ctx, details.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, KindAuthorization, left.Kind)

	got, err := svc.GetMemberByID(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCreator, got.Data.Role)
	requireListsConsistent(t, store, details.ID)
}

func TestUpdateRoleRejectsInvalidRoles(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")
	details := mustServer(t, svc, alice, "Test")
	member := mustMember(t, svc, models.RoleGuest, bob, details.ID)

	res, err := svc.UpdateRoleByID(ctx, member.ID, "SUPERUSER")
	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)

	res, err = svc.UpdateRoleByID(ctx, member.ID, "CREATOR")
	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)

	res, err = svc.UpdateRoleByID(ctx, "members:ghost", "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestJoinAndLeave(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")
	details := mustServer(t, svc, alice, "Test")

	joined, err := svc.JoinServerByInviteCode(ctx, details.InviteCode, bob.ID)
	require.NoError(t, err)
	require.True(t, joined.OK(), joined.Error)
	assert.Equal(t, models.RoleGuest, joined.Data.Role)
	requireListsConsistent(t, store, details.ID)

	again, err := svc.JoinServerByInviteCode(ctx, details.InviteCode, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, KindConflict, again.Kind)

	bad, err := svc.JoinServerByInviteCode(ctx, "nope", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, bad.Kind)

	left, err := svc.LeaveServer(ctx, details.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, left.OK(), left.Error)
	requireListsConsistent(t, store, details.ID)

	left, err = svc.LeaveServer(ctx, details.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, left.Kind)

	system, err := svc.GetSystemMessagesByServerID(ctx, details.ID)
	require.NoError(t, err)
	require.Len(t, system.Data, 2)
	assert.Equal(t, models.ActionJoin, system.Data[0].Action)
	assert.Equal(t, "bob joined the server.", system.Data[0].Content)
	assert.Equal(t, models.ActionLeave, system.Data[1].Action)
	assert.Equal(t, bob.ID, system.Data[1].ProfileId)
}

func TestKickFollowsHierarchy(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")
	carol := mustProfile(t, svc, "carol")
	dave := mustProfile(t, svc, "dave")
	details := mustServer(t, svc, alice, "Test")
	creator := creatorMember(t, details)

	moderator := mustMember(t, svc, models.RoleModerator, bob, details.ID)
	admin := mustMember(t, svc, models.RoleAdmin, carol, details.ID)
	guest := mustMember(t, svc, models.RoleGuest, dave, details.ID)

	res, err := svc.KickMember(ctx, moderator.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, KindAuthorization, res.Kind)

	res, err = svc.KickMember(ctx, admin.ID, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, KindAuthorization, res.Kind)

	res, err = svc.KickMember(ctx, guest.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)

	res, err = svc.KickMember(ctx, moderator.ID, guest.ID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)

	res, err = svc.KickMember(ctx, creator.ID, admin.ID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)

	requireListsConsistent(t, store, details.ID)

	system, err := svc.GetSystemMessagesByServerID(ctx, details.ID)
	require.NoError(t, err)
	require.Len(t, system.Data, 2)
	assert.Equal(t, "dave was kicked from the server.", system.Data[0].Content)
	assert.Equal(t, models.ActionKick, system.Data[1].Action)
}

func TestKickAcrossServersIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")
	one := mustServer(t, svc, alice, "One")
	two := mustServer(t, svc, bob, "Two")
	guest := mustMember(t, svc, models.RoleGuest, alice, two.ID)

	res, err := svc.KickMember(ctx, creatorMember(t, one).ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, KindAuthorization, res.Kind)
}

func TestChangeMemberRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")
	carol := mustProfile(t, svc, "carol")
	details := mustServer(t, svc, alice, "Test")
	creator := creatorMember(t, details)

	admin := mustMember(t, svc, models.RoleAdmin, bob, details.ID)
	guest := mustMember(t, svc, models.RoleGuest, carol, details.ID)

	// An admin may not hand out its own rank.
	res, err := svc.ChangeMemberRole(ctx, admin.ID, guest.ID, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, KindAuthorization, res.Kind)

	res, err = svc.ChangeMemberRole(ctx, admin.ID, guest.ID, "MODERATOR")
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, models.RoleModerator, res.Data.Role)

	res, err = svc.ChangeMemberRole(ctx, guest.ID, admin.ID, "GUEST")
	require.NoError(t, err)
	assert.Equal(t, KindAuthorization, res.Kind)

	res, err = svc.ChangeMemberRole(ctx, creator.ID, guest.ID, "ADMIN")
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)

	res, err = svc.ChangeMemberRole(ctx, creator.ID, guest.ID, "CREATOR")
	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)

	system, err := svc.GetSystemMessagesByServerID(ctx, details.ID)
	require.NoError(t, err)
	require.Len(t, system.Data, 2)
	assert.Equal(t, "carol is now ADMIN.", system.Data[1].Content)
	assert.Equal(t, models.ActionRole, system.Data[1].Action)
}
