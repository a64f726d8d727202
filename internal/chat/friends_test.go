package chat

import (
	"context"
	"hudori/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendFriendRequest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")

	res, err := svc.SendFriendRequest(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, NameSame, res.Name)
	assert.Equal(t, "Cannot send a friend request to yourself.", res.Error)

	res, err = svc.SendFriendRequest(ctx, alice.ID, "profiles:ghost")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)

	res, err = svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, models.FriendshipPending, res.Data.Status)

	// Duplicate detection is symmetric.
	res, err = svc.SendFriendRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, KindConflict, res.Kind)
	assert.Equal(t, "Friend request already exists.", res.Error)
}

func TestDeclineClearsThePair(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")

	sent, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	declined, err := svc.DeclineFriendRequest(ctx, sent.Data.ID)
	require.NoError(t, err)
	require.True(t, declined.OK(), declined.Error)
	assert.Equal(t, models.FriendshipDeclined, declined.Data.Status)

	gone, err := svc.GetFriendshipByID(ctx, sent.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, gone.Kind)

	again, err := svc.SendFriendRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, again.OK(), again.Error)
}

func TestAcceptBlocksNewRequests(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")

	friendship := mustFriends(t, svc, alice, bob)
	assert.Equal(t, models.FriendshipAccepted, friendship.Status)

	res, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, KindConflict, res.Kind)

	accepted, err := svc.AcceptFriendRequest(ctx, friendship.ID)
	require.NoError(t, err)
	assert.Equal(t, "No pending friend request found.", accepted.Error)

	declined, err := svc.DeclineFriendRequest(ctx, friendship.ID)
	require.NoError(t, err)
	assert.False(t, declined.OK())

	status, err := svc.GetFriendshipStatus(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, friendship.ID, status.Data)
}

func TestFriendshipStatusRequiresAccepted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")

	_, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	status, err := svc.GetFriendshipStatus(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, status.OK())
	assert.Empty(t, status.Data)
}

func TestFriendQueries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")
	carol := mustProfile(t, svc, "carol")
	dave := mustProfile(t, svc, "dave")

	first := mustFriends(t, svc, bob, alice)
	mustFriends(t, svc, alice, carol)
	_, err := svc.SendFriendRequest(ctx, dave.ID, alice.ID)
	require.NoError(t, err)

	requests, err := svc.GetFriendRequestsByProfileID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, requests.Data, 1)
	assert.Equal(t, dave.ID, requests.Data[0].Sender)

	friends, err := svc.GetFriendsByProfileID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends.Data, 2)
	assert.Equal(t, bob.ID, friends.Data[0].Profile.ID)
	assert.Equal(t, carol.ID, friends.Data[1].Profile.ID)

	firstFriend, err := svc.GetFirstFriend(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, firstFriend.Data.FriendshipId)

	none, err := svc.GetFirstFriend(ctx, dave.ID)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, none.Kind)
}

func TestDeleteFriendCascadesDirectMessages(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	bob := mustProfile(t, svc, "bob")
	carol := mustProfile(t, svc, "carol")

	friendship := mustFriends(t, svc, alice, bob)
	other := mustFriends(t, svc, alice, carol)

	for _, content := range []string{"hi", "hello", "bye"} {
		res, err := svc.CreateDirectMessage(ctx, NewDirectMessage{Content: content, Sender: alice.ID, Receiver: bob.ID})
		require.NoError(t, err)
		require.True(t, res.OK(), res.Error)
	}
	kept, err := svc.CreateDirectMessage(ctx, NewDirectMessage{Content: "still here", Sender: carol.ID, Receiver: alice.ID})
	require.NoError(t, err)

	res, err := svc.DeleteFriend(ctx, friendship.ID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)

	left, err := svc.GetDirectMessagesByFriendshipID(ctx, friendship.ID)
	require.NoError(t, err)
	assert.Empty(t, left.Data)

	survivor, err := svc.GetDirectMessagesByFriendshipID(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, survivor.Data, 1)
	assert.Equal(t, kept.Data.ID, survivor.Data[0].ID)

	res, err = svc.DeleteFriend(ctx, friendship.ID)
	require.NoError(t, err)
	assert.Equal(t, "No friend relationship found.", res.Error)

	again, err := svc.SendFriendRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, again.OK(), again.Error)
}
