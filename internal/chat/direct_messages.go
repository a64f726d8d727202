package chat

import (
	"context"
	"hudori/internal/database"
	"hudori/internal/models"
	"strings"
	"time"
)

const deletedDirectMessage = "This message has been deleted."

type NewDirectMessage struct {
	Content  string `json:"content"`
	FileUrl  string `json:"file_url"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

// CreateDirectMessage sends a message between two profiles. They must have
// an ACCEPTED friendship.
func (s *Service) CreateDirectMessage(ctx context.Context, in NewDirectMessage) (Result[*models.DirectMessage], error) {
	if in.Sender == "" || in.Receiver == "" {
		return failNamed[*models.DirectMessage](KindValidation, NameMissingInfo, "Sender and receiver are required.")
	}
	if strings.TrimSpace(in.Content) == "" {
		if in.FileUrl == "" {
			return failNamed[*models.DirectMessage](KindValidation, NameMissingInfo, "Message content is required!")
		}
		in.Content = in.FileUrl
	}

	friendship, err := s.GetFriendshipStatus(ctx, in.Sender, in.Receiver)
	if err != nil {
		return Result[*models.DirectMessage]{}, err
	}
	if !friendship.OK() {
		return fail[*models.DirectMessage](KindAuthorization, "Cannot send message without being friends.")
	}

	now := s.timestamp()
	msg := models.DirectMessage{
		Content:      in.Content,
		FileUrl:      in.FileUrl,
		Sender:       in.Sender,
		Receiver:     in.Receiver,
		FriendshipId: friendship.Data,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := s.insert(ctx, database.DirectMessages, msg)
	if err != nil {
		return Result[*models.DirectMessage]{}, err
	}
	msg.ID = id

	return ok(&msg, "Message created")
}

// UpdateDirectMessageByID edits a live message. Only the sender may edit.
func (s *Service) UpdateDirectMessageByID(ctx context.Context, messageID, profileID, content string) (Result[*models.DirectMessage], error) {
	if strings.TrimSpace(content) == "" {
		return failNamed[*models.DirectMessage](KindValidation, NameMissingInfo, "Message content is required!")
	}

	msg, err := load[models.DirectMessage](ctx, s, database.DirectMessages, messageID)
	if err != nil {
		return Result[*models.DirectMessage]{}, err
	}
	if msg == nil {
		return fail[*models.DirectMessage](KindNotFound, "Message not found")
	}
	if msg.Deleted {
		return fail[*models.DirectMessage](KindValidation, "Cannot edit a deleted message.")
	}
	if msg.Sender != profileID {
		return fail[*models.DirectMessage](KindAuthorization, "Only the sender can edit this message.")
	}

	msg.Content = content
	msg.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, msg.ID, map[string]any{
		"content":    msg.Content,
		"updated_at": msg.UpdatedAt,
	}); err != nil {
		return Result[*models.DirectMessage]{}, err
	}

	return ok(msg, "Message updated successfully")
}

// DeleteDirectMessageByID soft deletes a message for either party.
func (s *Service) DeleteDirectMessageByID(ctx context.Context, messageID, profileID string) (Result[*models.DirectMessage], error) {
	msg, err := load[models.DirectMessage](ctx, s, database.DirectMessages, messageID)
	if err != nil {
		return Result[*models.DirectMessage]{}, err
	}
	if msg == nil {
		return fail[*models.DirectMessage](KindNotFound, "Message not found to delete!")
	}
	if profileID != msg.Sender && profileID != msg.Receiver {
		return fail[*models.DirectMessage](KindAuthorization, "Unauthorized")
	}
	if msg.Deleted {
		return fail[*models.DirectMessage](KindValidation, "Message already deleted.")
	}

	msg.Content = deletedDirectMessage
	msg.FileUrl = ""
	msg.Deleted = true
	msg.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, msg.ID, map[string]any{
		"content":    msg.Content,
		"file_url":   msg.FileUrl,
		"deleted":    msg.Deleted,
		"updated_at": msg.UpdatedAt,
	}); err != nil {
		return Result[*models.DirectMessage]{}, err
	}

	return ok(msg, "Message deleted")
}

func (s *Service) GetDirectMessageByID(ctx context.Context, messageID string) (Result[*models.DirectMessage], error) {
	msg, err := load[models.DirectMessage](ctx, s, database.DirectMessages, messageID)
	if err != nil {
		return Result[*models.DirectMessage]{}, err
	}
	if msg == nil {
		return fail[*models.DirectMessage](KindNotFound, "Message not found")
	}
	return ok(msg, "Message found")
}

func (s *Service) GetDirectMessagesByFriendshipID(ctx context.Context, friendshipID string) (Result[[]models.DirectMessage], error) {
	list, err := findAll[models.DirectMessage](ctx, s, database.DirectMessages, database.Filter{"friendship_id": friendshipID})
	if err != nil {
		return Result[[]models.DirectMessage]{}, err
	}
	sortByCreated(list, func(m models.DirectMessage) time.Time { return m.CreatedAt })
	return ok(list, "Messages found")
}

// GetConversation returns the messages exchanged between a and b in both
// directions, oldest first.
func (s *Service) GetConversation(ctx context.Context, a, b string) (Result[[]models.DirectMessage], error) {
	sent, err := findAll[models.DirectMessage](ctx, s, database.DirectMessages, database.Filter{"sender": a, "receiver": b})
	if err != nil {
		return Result[[]models.DirectMessage]{}, err
	}
	received, err := findAll[models.DirectMessage](ctx, s, database.DirectMessages, database.Filter{"sender": b, "receiver": a})
	if err != nil {
		return Result[[]models.DirectMessage]{}, err
	}

	list := append(sent, received...)
	sortByCreated(list, func(m models.DirectMessage) time.Time { return m.CreatedAt })
	return ok(list, "Messages found")
}
