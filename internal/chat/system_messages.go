package chat

import (
	"context"
	"fmt"
	"hudori/internal/database"
	"hudori/internal/models"
	"time"
)

type NewSystemMessage struct {
	Content   string `json:"content"`
	Action    string `json:"action"`
	MemberId  string `json:"member_id"`
	ProfileId string `json:"profile_id"`
	ServerId  string `json:"server_id"`
}

// CreateSystemMessage appends an audit entry to a server. Entries are never
// edited or deleted.
func (s *Service) CreateSystemMessage(ctx context.Context, in NewSystemMessage) (Result[*models.SystemMessage], error) {
	action, valid := models.ParseSystemAction(in.Action)
	if !valid {
		return fail[*models.SystemMessage](KindValidation, "Invalid system action.")
	}
	if in.Content == "" || in.ServerId == "" {
		return failNamed[*models.SystemMessage](KindValidation, NameMissingInfo, "Content and server are required.")
	}

	server, err := load[models.Server](ctx, s, database.Servers, in.ServerId)
	if err != nil {
		return Result[*models.SystemMessage]{}, err
	}
	if server == nil {
		return fail[*models.SystemMessage](KindNotFound, "Server not found")
	}

	msg := models.SystemMessage{
		Content:   in.Content,
		Action:    action,
		MemberId:  in.MemberId,
		ProfileId: in.ProfileId,
		ServerId:  server.ID,
		CreatedAt: s.timestamp(),
	}
	id, err := s.insert(ctx, database.SystemMessages, msg)
	if err != nil {
		return Result[*models.SystemMessage]{}, err
	}
	msg.ID = id

	return ok(&msg, "Message created")
}

// announce records a membership event for member.
func (s *Service) announce(ctx context.Context, action models.SystemAction, member *models.Member, format string, args ...any) error {
	username := "Someone"
	profile, err := load[models.Profile](ctx, s, database.Profiles, member.ProfileId)
	if err != nil {
		return err
	}
	if profile != nil {
		username = profile.Username
	}

	res, err := s.CreateSystemMessage(ctx, NewSystemMessage{
		Content:   fmt.Sprintf(format, append([]any{username}, args...)...),
		Action:    string(action),
		MemberId:  member.ID,
		ProfileId: member.ProfileId,
		ServerId:  member.ServerId,
	})
	if err != nil {
		return err
	}
	if !res.OK() {
		s.logger.Warn().Str("server_id", member.ServerId).Str("reason", res.Error).Msg("system message skipped")
	}
	return nil
}

func (s *Service) GetSystemMessageByID(ctx context.Context, id string) (Result[*models.SystemMessage], error) {
	msg, err := load[models.SystemMessage](ctx, s, database.SystemMessages, id)
	if err != nil {
		return Result[*models.SystemMessage]{}, err
	}
	if msg == nil {
		return fail[*models.SystemMessage](KindNotFound, "Message not found")
	}
	return ok(msg, "Message found")
}

func (s *Service) GetSystemMessagesByServerID(ctx context.Context, serverID string) (Result[[]models.SystemMessage], error) {
	list, err := s.systemMessagesSince(ctx, serverID, time.Time{})
	if err != nil {
		return Result[[]models.SystemMessage]{}, err
	}
	return ok(list, "Messages found")
}

func (s *Service) systemMessagesSince(ctx context.Context, serverID string, since time.Time) ([]models.SystemMessage, error) {
	all, err := findAll[models.SystemMessage](ctx, s, database.SystemMessages, database.Filter{"server_id": serverID})
	if err != nil {
		return nil, err
	}

	list := make([]models.SystemMessage, 0, len(all))
	for _, m := range all {
		if m.CreatedAt.After(since) {
			list = append(list, m)
		}
	}
	sortByCreated(list, func(m models.SystemMessage) time.Time { return m.CreatedAt })
	return list, nil
}
