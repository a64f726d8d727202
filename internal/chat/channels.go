package chat

import (
	"context"
	"hudori/internal/database"
	"hudori/internal/models"
	"slices"
	"strings"
	"time"
)

type NewChannel struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	CreatorId string `json:"creator_id"`
	ServerId  string `json:"server_id"`
}

type ChannelPatch struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

func (s *Service) CreateChannel(ctx context.Context, in NewChannel) (Result[*models.Channel], error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.ServerId == "" || in.CreatorId == "" {
		return failNamed[*models.Channel](KindValidation, NameMissingInfo, "Channel name is required!")
	}
	if models.IsGeneralChannelName(name) {
		return failNamed[*models.Channel](KindValidation, NameGeneralChannel, "Channel name cannot be 'general'!")
	}
	channelType, valid := models.ParseChannelType(in.Type)
	if !valid {
		return failNamed[*models.Channel](KindValidation, NameChannelType, "Channel type must be TEXT, AUDIO or VIDEO.")
	}

	server, err := load[models.Server](ctx, s, database.Servers, in.ServerId)
	if err != nil {
		return Result[*models.Channel]{}, err
	}
	if server == nil {
		return fail[*models.Channel](KindNotFound, "Server not found")
	}

	duplicate, err := s.channelDuplicate(ctx, server.ID, name, channelType, "")
	if err != nil {
		return Result[*models.Channel]{}, err
	}
	if duplicate {
		return failNamed[*models.Channel](KindConflict, NameExists, "A channel with this name and type already exists.")
	}

	return s.createChannel(ctx, name, channelType, in.CreatorId, server.ID)
}

func (s *Service) createChannel(ctx context.Context, name string, channelType models.ChannelType, creatorID, serverID string) (Result[*models.Channel], error) {
	now := s.timestamp()
	channel := models.Channel{
		Name:      name,
		Type:      channelType,
		CreatorId: creatorID,
		ServerId:  serverID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.insert(ctx, database.Channels, channel)
	if err != nil {
		return Result[*models.Channel]{}, err
	}
	channel.ID = id

	res, err := s.AddChannelToServerByID(ctx, channel.ID, serverID)
	if err != nil {
		return Result[*models.Channel]{}, err
	}
	if !res.OK() {
		return relay[*models.Channel](res)
	}

	return ok(&channel, "Channel created")
}

// UpdateChannelByID renames or retypes a channel. The general channel is
// fixed.
func (s *Service) UpdateChannelByID(ctx context.Context, channelID string, patch ChannelPatch) (Result[*models.Channel], error) {
	channel, err := load[models.Channel](ctx, s, database.Channels, channelID)
	if err != nil {
		return Result[*models.Channel]{}, err
	}
	if channel == nil {
		return fail[*models.Channel](KindNotFound, "Channel not found")
	}
	if models.IsGeneralChannelName(channel.Name) {
		return failNamed[*models.Channel](KindValidation, NameGeneralChannel, "The general channel cannot be modified.")
	}

	name, channelType := channel.Name, channel.Type
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return failNamed[*models.Channel](KindValidation, NameMissingInfo, "Channel name is required!")
		}
		if models.IsGeneralChannelName(name) {
			return failNamed[*models.Channel](KindValidation, NameGeneralChannel, "Channel name cannot be 'general'!")
		}
	}
	if patch.Type != nil {
		t, valid := models.ParseChannelType(*patch.Type)
		if !valid {
			return failNamed[*models.Channel](KindValidation, NameChannelType, "Channel type must be TEXT, AUDIO or VIDEO.")
		}
		channelType = t
	}

	duplicate, err := s.channelDuplicate(ctx, channel.ServerId, name, channelType, channel.ID)
	if err != nil {
		return Result[*models.Channel]{}, err
	}
	if duplicate {
		return failNamed[*models.Channel](KindConflict, NameExists, "A channel with this name and type already exists.")
	}

	channel.Name = name
	channel.Type = channelType
	channel.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, channel.ID, map[string]any{
		"name":       channel.Name,
		"type":       channel.Type,
		"updated_at": channel.UpdatedAt,
	}); err != nil {
		return Result[*models.Channel]{}, err
	}

	return ok(channel, "Channel updated")
}

// DeleteChannelByID removes a channel and unregisters it from its server.
// The general channel stays for as long as its server exists.
func (s *Service) DeleteChannelByID(ctx context.Context, channelID string) (Result[*models.Channel], error) {
	channel, err := load[models.Channel](ctx, s, database.Channels, channelID)
	if err != nil {
		return Result[*models.Channel]{}, err
	}
	if channel == nil {
		return fail[*models.Channel](KindNotFound, "Channel not found")
	}

	server, err := load[models.Server](ctx, s, database.Servers, channel.ServerId)
	if err != nil {
		return Result[*models.Channel]{}, err
	}

	if server != nil {
		if models.IsGeneralChannelName(channel.Name) {
			return failNamed[*models.Channel](KindValidation, NameGeneralChannel, "The general channel cannot be deleted.")
		}
		if slices.Contains(server.Channels, channel.ID) {
			res, err := s.RemoveChannelFromServerByID(ctx, channel.ID, server.ID)
			if err != nil {
				return Result[*models.Channel]{}, err
			}
			if !res.OK() {
				return relay[*models.Channel](res)
			}
			return ok(channel, "Channel Deleted")
		}
	}

	if err := s.remove(ctx, channel.ID); err != nil {
		return Result[*models.Channel]{}, err
	}
	return ok(channel, "Channel Deleted")
}

func (s *Service) GetChannelByID(ctx context.Context, channelID string) (Result[*models.Channel], error) {
	channel, err := load[models.Channel](ctx, s, database.Channels, channelID)
	if err != nil {
		return Result[*models.Channel]{}, err
	}
	if channel == nil {
		return fail[*models.Channel](KindNotFound, "Channel not found")
	}
	return ok(channel, "Channel found")
}

func (s *Service) GetAllChannelsByServerID(ctx context.Context, serverID string) (Result[[]models.Channel], error) {
	channels, err := findAll[models.Channel](ctx, s, database.Channels, database.Filter{"server_id": serverID})
	if err != nil {
		return Result[[]models.Channel]{}, err
	}
	sortByCreated(channels, func(c models.Channel) time.Time { return c.CreatedAt })
	return ok(channels, "Channels found")
}

// IsChannelDuplicate reports whether serverID already has a channel with the
// same name and type.
func (s *Service) IsChannelDuplicate(ctx context.Context, serverID, name, channelType string) (Result[bool], error) {
	t, valid := models.ParseChannelType(channelType)
	if !valid {
		return failNamed[bool](KindValidation, NameChannelType, "Channel type must be TEXT, AUDIO or VIDEO.")
	}
	duplicate, err := s.channelDuplicate(ctx, serverID, strings.TrimSpace(name), t, "")
	if err != nil {
		return Result[bool]{}, err
	}
	return ok(duplicate, "Success")
}

func (s *Service) channelDuplicate(ctx context.Context, serverID, name string, channelType models.ChannelType, exceptID string) (bool, error) {
	channels, err := findAll[models.Channel](ctx, s, database.Channels, database.Filter{
		"server_id": serverID,
		"type":      channelType,
	})
	if err != nil {
		return false, err
	}
	for _, c := range channels {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
