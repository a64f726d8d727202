package chat

import (
	"context"
	"fmt"
	"hudori/internal/database"
	"hudori/internal/models"
	"slices"
	"strings"
	"time"
)

type NewMessage struct {
	Content   string `json:"content"`
	FileUrl   string `json:"file_url"`
	MemberId  string `json:"member_id"`
	ChannelId string `json:"channel_id"`
}

// CreateMessage posts to a channel. The member must belong to the channel's
// server and the username is copied from the member's profile.
func (s *Service) CreateMessage(ctx context.Context, in NewMessage) (Result[*models.Message], error) {
	if in.MemberId == "" || in.ChannelId == "" {
		return failNamed[*models.Message](KindValidation, NameMissingInfo, "Member and channel are required.")
	}
	if strings.TrimSpace(in.Content) == "" {
		if in.FileUrl == "" {
			return failNamed[*models.Message](KindValidation, NameMissingInfo, "Message content is required!")
		}
		in.Content = in.FileUrl
	}

	member, channel, res, err := s.memberInChannel(ctx, in.MemberId, in.ChannelId)
	if err != nil || !res.OK() {
		return res, err
	}

	profile, err := load[models.Profile](ctx, s, database.Profiles, member.ProfileId)
	if err != nil {
		return Result[*models.Message]{}, err
	}
	if profile == nil {
		return fail[*models.Message](KindNotFound, "Profile not found")
	}

	now := s.timestamp()
	msg := models.Message{
		Content:   in.Content,
		FileUrl:   in.FileUrl,
		MemberId:  member.ID,
		Username:  profile.Username,
		ChannelId: channel.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.insert(ctx, database.Messages, msg)
	if err != nil {
		return Result[*models.Message]{}, err
	}
	msg.ID = id

	return ok(&msg, "Message created")
}

// UpdateMessageByID replaces the content of a live message.
func (s *Service) UpdateMessageByID(ctx context.Context, messageID, content string) (Result[*models.Message], error) {
	if strings.TrimSpace(content) == "" {
		return failNamed[*models.Message](KindValidation, NameMissingInfo, "Message content is required!")
	}

	msg, err := load[models.Message](ctx, s, database.Messages, messageID)
	if err != nil {
		return Result[*models.Message]{}, err
	}
	if msg == nil {
		return fail[*models.Message](KindNotFound, "Message not found")
	}
	if msg.Deleted {
		return fail[*models.Message](KindValidation, "Cannot edit a deleted message.")
	}

	msg.Content = content
	msg.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, msg.ID, map[string]any{
		"content":    msg.Content,
		"updated_at": msg.UpdatedAt,
	}); err != nil {
		return Result[*models.Message]{}, err
	}

	return ok(msg, "Message updated successfully")
}

// DeleteMessageByID soft deletes a message on behalf of memberID: the content
// is replaced with an attribution and the row is kept. The member must belong
// to the server of the message's channel.
func (s *Service) DeleteMessageByID(ctx context.Context, messageID, memberID string) (Result[*models.Message], error) {
	msg, err := load[models.Message](ctx, s, database.Messages, messageID)
	if err != nil {
		return Result[*models.Message]{}, err
	}
	if msg == nil {
		return fail[*models.Message](KindNotFound, "Message not found to delete!")
	}

	member, _, res, err := s.memberInChannel(ctx, memberID, msg.ChannelId)
	if err != nil || !res.OK() {
		return res, err
	}
	if msg.Deleted {
		return fail[*models.Message](KindValidation, "Message already deleted.")
	}

	deleter := "Unknown"
	profile, err := load[models.Profile](ctx, s, database.Profiles, member.ProfileId)
	if err != nil {
		return Result[*models.Message]{}, err
	}
	if profile != nil {
		deleter = profile.Username
	}

	msg.Content = fmt.Sprintf("This message has been deleted. (By %s)", deleter)
	msg.FileUrl = ""
	msg.Deleted = true
	msg.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, msg.ID, map[string]any{
		"content":    msg.Content,
		"file_url":   msg.FileUrl,
		"deleted":    msg.Deleted,
		"updated_at": msg.UpdatedAt,
	}); err != nil {
		return Result[*models.Message]{}, err
	}

	return ok(msg, "Message deleted")
}

func (s *Service) GetMessageByID(ctx context.Context, messageID string) (Result[*models.Message], error) {
	msg, err := load[models.Message](ctx, s, database.Messages, messageID)
	if err != nil {
		return Result[*models.Message]{}, err
	}
	if msg == nil {
		return fail[*models.Message](KindNotFound, "Message not found")
	}
	return ok(msg, "Message found")
}

func (s *Service) GetAllMessagesByChannelID(ctx context.Context, channelID string) (Result[[]models.Message], error) {
	messages, err := s.channelMessages(ctx, channelID)
	if err != nil {
		return Result[[]models.Message]{}, err
	}
	return ok(messages, "Messages found")
}

// GetChannelTimeline merges a channel's messages with the system messages
// its server recorded after the channel was created, oldest first.
func (s *Service) GetChannelTimeline(ctx context.Context, channelID string) (Result[[]models.TimelineEntry], error) {
	channel, err := load[models.Channel](ctx, s, database.Channels, channelID)
	if err != nil {
		return Result[[]models.TimelineEntry]{}, err
	}
	if channel == nil {
		return fail[[]models.TimelineEntry](KindNotFound, "Channel not found")
	}

	messages, err := s.channelMessages(ctx, channel.ID)
	if err != nil {
		return Result[[]models.TimelineEntry]{}, err
	}
	system, err := s.systemMessagesSince(ctx, channel.ServerId, channel.CreatedAt)
	if err != nil {
		return Result[[]models.TimelineEntry]{}, err
	}

	timeline := make([]models.TimelineEntry, 0, len(messages)+len(system))
	for i := range messages {
		timeline = append(timeline, models.TimelineEntry{Message: &messages[i]})
	}
	for i := range system {
		timeline = append(timeline, models.TimelineEntry{SystemMessage: &system[i]})
	}
	slices.SortStableFunc(timeline, func(a, b models.TimelineEntry) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})

	return ok(timeline, "Messages found")
}

func (s *Service) channelMessages(ctx context.Context, channelID string) ([]models.Message, error) {
	messages, err := findAll[models.Message](ctx, s, database.Messages, database.Filter{"channel_id": channelID})
	if err != nil {
		return nil, err
	}
	sortByCreated(messages, func(m models.Message) time.Time { return m.CreatedAt })
	return messages, nil
}

// memberInChannel loads a member and a channel and checks they share a
// server.
func (s *Service) memberInChannel(ctx context.Context, memberID, channelID string) (*models.Member, *models.Channel, Result[*models.Message], error) {
	member, err := load[models.Member](ctx, s, database.Members, memberID)
	if err != nil {
		return nil, nil, Result[*models.Message]{}, err
	}
	if member == nil {
		res, _ := fail[*models.Message](KindNotFound, "Member not found")
		return nil, nil, res, nil
	}

	channel, err := load[models.Channel](ctx, s, database.Channels, channelID)
	if err != nil {
		return nil, nil, Result[*models.Message]{}, err
	}
	if channel == nil {
		res, _ := fail[*models.Message](KindNotFound, "Channel not found")
		return nil, nil, res, nil
	}

	if member.ServerId != channel.ServerId {
		res, _ := fail[*models.Message](KindAuthorization, "Unauthorized")
		return nil, nil, res, nil
	}

	return member, channel, Result[*models.Message]{}, nil
}
