package chat

import (
	"context"
	"hudori/internal/database"
	"hudori/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testAdminSecret = "letmein"

type tickingClock struct {
	t time.Time
}

func (c *tickingClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService(t *testing.T) (*Service, database.Store) {
	t.Helper()
	store := database.NewMemory()
	clock := &tickingClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(store, WithClock(clock.now), WithAdminSecret(testAdminSecret)), store
}

func mustProfile(t *testing.T, svc *Service, username string) *models.Profile {
	t.Helper()
	res, err := svc.CreateProfile(context.Background(), NewProfile{
		UserId:   "user_" + username,
		Username: username,
		Name:     username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	return res.Data
}

func mustServer(t *testing.T, svc *Service, creator *models.Profile, name string) *models.ServerDetails {
	t.Helper()
	res, err := svc.CreateServer(context.Background(), NewServer{Name: name, CreatorId: creator.ID})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	return res.Data
}

func mustMember(t *testing.T, svc *Service, role models.Role, profile *models.Profile, serverID string) *models.Member {
	t.Helper()
	res, err := svc.CreateMember(context.Background(), string(role), profile.ID, serverID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	return res.Data
}

func mustFriends(t *testing.T, svc *Service, a, b *models.Profile) *models.Friendship {
	t.Helper()
	ctx := context.Background()
	sent, err := svc.SendFriendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.True(t, sent.OK(), sent.Error)

	accepted, err := svc.AcceptFriendRequest(ctx, sent.Data.ID)
	require.NoError(t, err)
	require.True(t, accepted.OK(), accepted.Error)
	return accepted.Data
}

// creatorMember finds the CREATOR membership of a freshly created server.
func creatorMember(t *testing.T, details *models.ServerDetails) *models.Member {
	t.Helper()
	for _, m := range details.Members {
		if m.Role == models.RoleCreator {
			member := m.Member
			return &member
		}
	}
	t.Fatal("server has no creator member")
	return nil
}

// requireListsConsistent checks that the server's member list matches the
// member rows pointing at it.
func requireListsConsistent(t *testing.T, store database.Store, serverID string) {
	t.Helper()
	ctx := context.Background()

	var server models.Server
	found, err := store.Get(ctx, serverID, &server)
	require.NoError(t, err)
	require.True(t, found)

	var rows []models.Member
	require.NoError(t, store.Collect(ctx, database.Members, database.Filter{"server_id": serverID}, &rows))

	ids := make([]string, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	require.ElementsMatch(t, ids, server.Members)

	var channels []models.Channel
	require.NoError(t, store.Collect(ctx, database.Channels, database.Filter{"server_id": serverID}, &channels))
	channelIDs := make([]string, 0, len(channels))
	for _, c := range channels {
		channelIDs = append(channelIDs, c.ID)
	}
	require.ElementsMatch(t, channelIDs, server.Channels)
}
