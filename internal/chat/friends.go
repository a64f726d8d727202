package chat

import (
	"context"
	"hudori/internal/database"
	"hudori/internal/models"
	"time"
)

// SendFriendRequest opens a PENDING friendship. Any existing record between
// the pair, in either direction and of any status, blocks a new one.
func (s *Service) SendFriendRequest(ctx context.Context, senderID, receiverID string) (Result[*models.Friendship], error) {
	if senderID == "" || receiverID == "" {
		return failNamed[*models.Friendship](KindValidation, NameMissingInfo, "Sender and receiver are required.")
	}
	if senderID == receiverID {
		return failNamed[*models.Friendship](KindValidation, NameSame, "Cannot send a friend request to yourself.")
	}

	for _, id := range []string{senderID, receiverID} {
		profile, err := load[models.Profile](ctx, s, database.Profiles, id)
		if err != nil {
			return Result[*models.Friendship]{}, err
		}
		if profile == nil {
			return fail[*models.Friendship](KindNotFound, "Profile not found")
		}
	}

	existing, err := s.friendshipBetween(ctx, senderID, receiverID)
	if err != nil {
		return Result[*models.Friendship]{}, err
	}
	if existing != nil {
		return fail[*models.Friendship](KindConflict, "Friend request already exists.")
	}

	now := s.timestamp()
	request := models.Friendship{
		Sender:    senderID,
		Receiver:  receiverID,
		Status:    models.FriendshipPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.insert(ctx, database.Friends, request)
	if err != nil {
		return Result[*models.Friendship]{}, err
	}
	request.ID = id

	return ok(&request, "Friend request sent.")
}

func (s *Service) AcceptFriendRequest(ctx context.Context, requestID string) (Result[*models.Friendship], error) {
	return s.answerFriendRequest(ctx, requestID, models.FriendshipAccepted)
}

// DeclineFriendRequest marks the request DECLINED and then deletes it, which
// frees the pair for a new request.
func (s *Service) DeclineFriendRequest(ctx context.Context, requestID string) (Result[*models.Friendship], error) {
	res, err := s.answerFriendRequest(ctx, requestID, models.FriendshipDeclined)
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.remove(ctx, requestID); err != nil {
		return Result[*models.Friendship]{}, err
	}
	return res, nil
}

func (s *Service) answerFriendRequest(ctx context.Context, requestID string, status models.FriendshipStatus) (Result[*models.Friendship], error) {
	request, err := load[models.Friendship](ctx, s, database.Friends, requestID)
	if err != nil {
		return Result[*models.Friendship]{}, err
	}
	if request == nil || request.Status != models.FriendshipPending {
		return fail[*models.Friendship](KindNotFound, "No pending friend request found.")
	}

	request.Status = status
	request.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, request.ID, map[string]any{
		"status":     request.Status,
		"updated_at": request.UpdatedAt,
	}); err != nil {
		return Result[*models.Friendship]{}, err
	}

	if status == models.FriendshipAccepted {
		return ok(request, "Friend request accepted.")
	}
	return ok(request, "Friend request declined.")
}

// DeleteFriend removes a friendship of any status along with its direct
// messages. Messages go first so an interrupted run can be repeated.
func (s *Service) DeleteFriend(ctx context.Context, friendshipID string) (Result[*models.Friendship], error) {
	friendship, err := load[models.Friendship](ctx, s, database.Friends, friendshipID)
	if err != nil {
		return Result[*models.Friendship]{}, err
	}
	if friendship == nil {
		return fail[*models.Friendship](KindNotFound, "No friend relationship found.")
	}

	messages, err := findAll[models.DirectMessage](ctx, s, database.DirectMessages, database.Filter{"friendship_id": friendship.ID})
	if err != nil {
		return Result[*models.Friendship]{}, err
	}
	for _, message := range messages {
		if err := s.remove(ctx, message.ID); err != nil {
			return Result[*models.Friendship]{}, err
		}
	}

	if err := s.remove(ctx, friendship.ID); err != nil {
		return Result[*models.Friendship]{}, err
	}

	s.logger.Info().
		Str("friendship_id", friendship.ID).
		Int("direct_messages", len(messages)).
		Msg("friendship deleted")
	return ok(friendship, "Friend relationship deleted.")
}

// GetFriendshipStatus returns the friendship id for an ACCEPTED pair. It is
// the gate direct messaging checks.
func (s *Service) GetFriendshipStatus(ctx context.Context, a, b string) (Result[string], error) {
	friendship, err := s.friendshipBetween(ctx, a, b)
	if err != nil {
		return Result[string]{}, err
	}
	if friendship == nil || friendship.Status != models.FriendshipAccepted {
		return fail[string](KindNotFound, "Not friends.")
	}
	return ok(friendship.ID, "Friends")
}

func (s *Service) GetFriendshipByID(ctx context.Context, friendshipID string) (Result[*models.Friendship], error) {
	friendship, err := load[models.Friendship](ctx, s, database.Friends, friendshipID)
	if err != nil {
		return Result[*models.Friendship]{}, err
	}
	if friendship == nil {
		return fail[*models.Friendship](KindNotFound, "No friend relationship found.")
	}
	return ok(friendship, "Success")
}

// GetFriendRequestsByProfileID lists PENDING requests addressed to profileID.
func (s *Service) GetFriendRequestsByProfileID(ctx context.Context, profileID string) (Result[[]models.Friendship], error) {
	requests, err := findAll[models.Friendship](ctx, s, database.Friends, database.Filter{
		"receiver": profileID,
		"status":   models.FriendshipPending,
	})
	if err != nil {
		return Result[[]models.Friendship]{}, err
	}
	return ok(requests, "Success")
}

// GetFriendsByProfileID lists accepted friendships joined with the other
// party's profile. Friends whose profile is gone are skipped.
func (s *Service) GetFriendsByProfileID(ctx context.Context, profileID string) (Result[[]models.Friend], error) {
	friendships, err := s.acceptedFriendships(ctx, profileID)
	if err != nil {
		return Result[[]models.Friend]{}, err
	}

	friends := make([]models.Friend, 0, len(friendships))
	for _, f := range friendships {
		profile, err := load[models.Profile](ctx, s, database.Profiles, f.Other(profileID))
		if err != nil {
			return Result[[]models.Friend]{}, err
		}
		if profile == nil {
			continue
		}
		friends = append(friends, models.Friend{FriendshipId: f.ID, Profile: profile})
	}

	return ok(friends, "Success")
}

// GetFirstFriend returns the earliest accepted friend, used to pick a default
// conversation.
func (s *Service) GetFirstFriend(ctx context.Context, profileID string) (Result[*models.Friend], error) {
	res, err := s.GetFriendsByProfileID(ctx, profileID)
	if err != nil {
		return Result[*models.Friend]{}, err
	}
	if len(res.Data) == 0 {
		return fail[*models.Friend](KindNotFound, "No friends found.")
	}
	return ok(&res.Data[0], "Success")
}

func (s *Service) friendshipBetween(ctx context.Context, a, b string) (*models.Friendship, error) {
	friendship, err := findFirst[models.Friendship](ctx, s, database.Friends, database.Filter{"sender": a, "receiver": b})
	if err != nil || friendship != nil {
		return friendship, err
	}
	return findFirst[models.Friendship](ctx, s, database.Friends, database.Filter{"sender": b, "receiver": a})
}

func (s *Service) acceptedFriendships(ctx context.Context, profileID string) ([]models.Friendship, error) {
	sent, err := findAll[models.Friendship](ctx, s, database.Friends, database.Filter{
		"sender": profileID,
		"status": models.FriendshipAccepted,
	})
	if err != nil {
		return nil, err
	}
	received, err := findAll[models.Friendship](ctx, s, database.Friends, database.Filter{
		"receiver": profileID,
		"status":   models.FriendshipAccepted,
	})
	if err != nil {
		return nil, err
	}

	all := append(sent, received...)
	sortByCreated(all, func(f models.Friendship) time.Time { return f.CreatedAt })
	return all, nil
}
