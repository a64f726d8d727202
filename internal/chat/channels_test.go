package chat

import (
	"context"
	"hudori/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChannelErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	details := mustServer(t, svc, alice, "Test")

	tests := []struct {
		name string
		in   NewChannel
		kind Kind
		want string
	}{
		{"missing name", NewChannel{Type: "TEXT", CreatorId: alice.ID, ServerId: details.ID}, KindValidation, NameMissingInfo},
		{"general", NewChannel{Name: "General", Type: "TEXT", CreatorId: alice.ID, ServerId: details.ID}, KindValidation, NameGeneralChannel},
		{"bad type", NewChannel{Name: "random", Type: "FORUM", CreatorId: alice.ID, ServerId: details.ID}, KindValidation, NameChannelType},
		{"no server", NewChannel{Name: "random", Type: "TEXT", CreatorId: alice.ID, ServerId: "servers:ghost"}, KindNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.CreateChannel(ctx, tt.in)
			require.NoError(t, err)
			assert.False(t, res.OK())
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.want, res.Name)
		})
	}
}

func TestCreateChannelUniqueness(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	details := mustServer(t, svc, alice, "Test")

	res, err := svc.CreateChannel(ctx, NewChannel{Name: "lounge", Type: "text", CreatorId: alice.ID, ServerId: details.ID})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, models.ChannelText, res.Data.Type)

	res, err = svc.CreateChannel(ctx, NewChannel{Name: "lounge", Type: "TEXT", CreatorId: alice.ID, ServerId: details.ID})
	require.NoError(t, err)
	assert.Equal(t, NameExists, res.Name)
	assert.Equal(t, KindConflict, res.Kind)

	res, err = svc.CreateChannel(ctx, NewChannel{Name: "lounge", Type: "AUDIO", CreatorId: alice.ID, ServerId: details.ID})
	require.NoError(t, err)
	assert.True(t, res.OK(), res.Error)

	dup, err := svc.IsChannelDuplicate(ctx, details.ID, "lounge", "VIDEO")
	require.NoError(t, err)
	assert.False(t, dup.Data)

	dup, err = svc.IsChannelDuplicate(ctx, details.ID, "lounge", "AUDIO")
	require.NoError(t, err)
	assert.True(t, dup.Data)

	requireListsConsistent(t, store, details.ID)
}

func TestGeneralChannelIsFixed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	details := mustServer(t, svc, alice, "Test")
	general := details.Channels[0]

	name := "lobby"
	res, err := svc.UpdateChannelByID(ctx, general.ID, ChannelPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, NameGeneralChannel, res.Name)

	audio := "AUDIO"
	res, err = svc.UpdateChannelByID(ctx, general.ID, ChannelPatch{Type: &audio})
	require.NoError(t, err)
	assert.False(t, res.OK())

	res, err = svc.DeleteChannelByID(ctx, general.ID)
	require.NoError(t, err)
	assert.Equal(t, NameGeneralChannel, res.Name)

	got, err := svc.GetChannelByID(ctx, general.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GeneralChannelName, got.Data.Name)
	assert.Equal(t, models.ChannelText, got.Data.Type)
}

func TestUpdateChannel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	details := mustServer(t, svc, alice, "Test")

	created, err := svc.CreateChannel(ctx, NewChannel{Name: "lounge", Type: "TEXT", CreatorId: alice.ID, ServerId: details.ID})
	require.NoError(t, err)
	_, err = svc.CreateChannel(ctx, NewChannel{Name: "games", Type: "TEXT", CreatorId: alice.ID, ServerId: details.ID})
	require.NoError(t, err)

	// Keeping the same name is not a duplicate of itself.
	same := "lounge"
	res, err := svc.UpdateChannelByID(ctx, created.Data.ID, ChannelPatch{Name: &same})
	require.NoError(t, err)
	assert.True(t, res.OK(), res.Error)

	games := "games"
	res, err = svc.UpdateChannelByID(ctx, created.Data.ID, ChannelPatch{Name: &games})
	require.NoError(t, err)
	assert.Equal(t, NameExists, res.Name)

	general := "general"
	res, err = svc.UpdateChannelByID(ctx, created.Data.ID, ChannelPatch{Name: &general})
	require.NoError(t, err)
	assert.Equal(t, NameGeneralChannel, res.Name)

	video := "VIDEO"
	res, err = svc.UpdateChannelByID(ctx, created.Data.ID, ChannelPatch{Name: &games, Type: &video})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "games", res.Data.Name)
	assert.Equal(t, models.ChannelVideo, res.Data.Type)
}

func TestDeleteChannel(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	alice := mustProfile(t, svc, "alice")
	details := mustServer(t, svc, alice, "Test")

	created, err := svc.CreateChannel(ctx, NewChannel{Name: "lounge", Type: "TEXT", CreatorId: alice.ID, ServerId: details.ID})
	require.NoError(t, err)

	res, err := svc.DeleteChannelByID(ctx, created.Data.ID)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "Channel Deleted", res.Message)
	requireListsConsistent(t, store, details.ID)

	res, err = svc.DeleteChannelByID(ctx, created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)

	list, err := svc.GetAllChannelsByServerID(ctx, details.ID)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, models.GeneralChannelName, list.Data[0].Name)
}
