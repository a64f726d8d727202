package chat

import (
	"context"
	"hudori/internal/database"
	"hudori/internal/models"
	"hudori/internal/utils"
	"slices"
	"strings"
	"time"
)

type NewServer struct {
	Name       string `json:"name"`
	ImageUrl   string `json:"image_url"`
	InviteCode string `json:"invite_code"`
	CreatorId  string `json:"creator_id"`
}

// ServerPatch holds the caller-editable server fields. The id lists are only
// ever written by the consistency helpers below.
type ServerPatch struct {
	Name     *string `json:"name"`
	ImageUrl *string `json:"image_url"`
}

// InviteCheck is the answer to an invite lookup: the server behind the code
// and whether the asking profile already belongs to it.
type InviteCheck struct {
	Server   *models.Server `json:"server"`
	IsMember bool           `json:"is_member"`
}

const (
	membersList  = "members"
	channelsList = "channels"
)

// CreateServer inserts the server, its general TEXT channel and the CREATOR
// membership of its founder, then returns the resolved server.
func (s *Service) CreateServer(ctx context.Context, in NewServer) (Result[*models.ServerDetails], error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return failNamed[*models.ServerDetails](KindValidation, NameMissingInfo, "Server name is required!")
	}

	creator, err := load[models.Profile](ctx, s, database.Profiles, in.CreatorId)
	if err != nil {
		return Result[*models.ServerDetails]{}, err
	}
	if creator == nil {
		return fail[*models.ServerDetails](KindNotFound, "Profile not found")
	}

	if in.InviteCode == "" {
		in.InviteCode = utils.NewInviteCode()
	} else {
		taken, err := findFirst[models.Server](ctx, s, database.Servers, database.Filter{"invite_code": in.InviteCode})
		if err != nil {
			return Result[*models.ServerDetails]{}, err
		}
		if taken != nil {
			return fail[*models.ServerDetails](KindConflict, "Invite code already in use.")
		}
	}

	now := s.timestamp()
	server := models.Server{
		Name:       in.Name,
		ImageUrl:   in.ImageUrl,
		InviteCode: in.InviteCode,
		CreatorId:  creator.ID,
		Members:    []string{},
		Channels:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	id, err := s.insert(ctx, database.Servers, server)
	if err != nil {
		return Result[*models.ServerDetails]{}, err
	}

	channel, err := s.createChannel(ctx, models.GeneralChannelName, models.ChannelText, creator.ID, id)
	if err != nil {
		return Result[*models.ServerDetails]{}, err
	}
	if !channel.OK() {
		return relay[*models.ServerDetails](channel)
	}

	member, err := s.createMember(ctx, models.RoleCreator, creator.ID, id)
	if err != nil {
		return Result[*models.ServerDetails]{}, err
	}
	if !member.OK() {
		return relay[*models.ServerDetails](member)
	}

	s.logger.Info().Str("server_id", id).Str("creator_id", creator.ID).Msg("server created")

	res, err := s.GetServerWithMembersAndChannelsByServerID(ctx, id)
	if err != nil || !res.OK() {
		return res, err
	}
	res.Message = "Server created"
	return res, nil
}

func (s *Service) UpdateServerByID(ctx context.Context, serverID string, patch ServerPatch) (Result[*models.Server], error) {
	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if server == nil {
		return fail[*models.Server](KindNotFound, "Server not found")
	}

	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return failNamed[*models.Server](KindValidation, NameMissingInfo, "Server name is required!")
		}
		updates["name"] = name
		server.Name = name
	}
	if patch.ImageUrl != nil {
		updates["image_url"] = *patch.ImageUrl
		server.ImageUrl = *patch.ImageUrl
	}

	server.UpdatedAt = s.timestamp()
	updates["updated_at"] = server.UpdatedAt
	if err := s.patch(ctx, server.ID, updates); err != nil {
		return Result[*models.Server]{}, err
	}

	return ok(server, "Server updated")
}

func (s *Service) RegenerateInviteCode(ctx context.Context, serverID string) (Result[*models.Server], error) {
	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if server == nil {
		return fail[*models.Server](KindNotFound, "Server not found")
	}

	server.InviteCode = utils.NewInviteCode()
	server.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, server.ID, map[string]any{
		"invite_code": server.InviteCode,
		"updated_at":  server.UpdatedAt,
	}); err != nil {
		return Result[*models.Server]{}, err
	}

	return ok(server, "Invite code updated")
}

// DeleteServerByID lets the creator delete a server. The server row goes
// first, then every member, then every channel, each through its own delete.
// Calling it again after a partial failure finishes the cascade.
func (s *Service) DeleteServerByID(ctx context.Context, serverID, actorProfileID string) (Result[*models.Server], error) {
	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if server == nil {
		return s.resumeServerDeletion(ctx, serverID, actorProfileID)
	}
	if actorProfileID != server.CreatorId {
		return fail[*models.Server](KindAuthorization, "Only the creator can delete the server.")
	}

	if err := s.remove(ctx, server.ID); err != nil {
		return Result[*models.Server]{}, err
	}

	if err := s.purgeServerChildren(ctx, server); err != nil {
		return Result[*models.Server]{}, err
	}

	s.logger.Info().
		Str("server_id", server.ID).
		Int("members", len(server.Members)).
		Int("channels", len(server.Channels)).
		Msg("server deleted")
	return ok(server, "Server deleted")
}

// resumeServerDeletion removes the member and channel rows left behind by an
// interrupted delete. The owner is recovered from the CREATOR member or the
// general channel while either survives. Without leftovers the server is
// simply not found.
func (s *Service) resumeServerDeletion(ctx context.Context, serverID, actorProfileID string) (Result[*models.Server], error) {
	if database.CollectionOf(serverID) != database.Servers {
		return fail[*models.Server](KindNotFound, "Server not found")
	}

	member, err := findFirst[models.Member](ctx, s, database.Members, database.Filter{"server_id": serverID})
	if err != nil {
		return Result[*models.Server]{}, err
	}
	channel, err := findFirst[models.Channel](ctx, s, database.Channels, database.Filter{"server_id": serverID})
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if member == nil && channel == nil {
		return fail[*models.Server](KindNotFound, "Server not found")
	}

	owner := ""
	creator, err := findFirst[models.Member](ctx, s, database.Members, database.Filter{"server_id": serverID, "role": models.RoleCreator})
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if creator != nil {
		owner = creator.ProfileId
	} else {
		general, err := findFirst[models.Channel](ctx, s, database.Channels, database.Filter{"server_id": serverID, "name": models.GeneralChannelName})
		if err != nil {
			return Result[*models.Server]{}, err
		}
		if general != nil {
			owner = general.CreatorId
		}
	}
	if owner != "" && owner != actorProfileID {
		return fail[*models.Server](KindAuthorization, "Only the creator can delete the server.")
	}

	if err := s.purgeServerChildren(ctx, &models.Server{ID: serverID}); err != nil {
		return Result[*models.Server]{}, err
	}

	s.logger.Info().Str("server_id", serverID).Msg("server deletion resumed")
	return ok[*models.Server](nil, "Server deletion resumed")
}

// purgeServerChildren deletes every member and channel of a removed server.
// Rows missing from the id lists are picked up by a scan as well.
func (s *Service) purgeServerChildren(ctx context.Context, server *models.Server) error {
	rows, err := findAll[models.Member](ctx, s, database.Members, database.Filter{"server_id": server.ID})
	if err != nil {
		return err
	}
	memberIDs := slices.Clone(server.Members)
	for _, m := range rows {
		if !slices.Contains(memberIDs, m.ID) {
			memberIDs = append(memberIDs, m.ID)
		}
	}
	for _, id := range memberIDs {
		if _, err := s.DeleteMemberByID(ctx, id); err != nil {
			return err
		}
	}

	channels, err := findAll[models.Channel](ctx, s, database.Channels, database.Filter{"server_id": server.ID})
	if err != nil {
		return err
	}
	channelIDs := slices.Clone(server.Channels)
	for _, c := range channels {
		if !slices.Contains(channelIDs, c.ID) {
			channelIDs = append(channelIDs, c.ID)
		}
	}
	for _, id := range channelIDs {
		if _, err := s.DeleteChannelByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

// AddMemberToServerByID registers memberID on the server. Registering an id
// twice leaves the server unchanged.
func (s *Service) AddMemberToServerByID(ctx context.Context, memberID, serverID string) (Result[*models.Server], error) {
	return s.addToServerList(ctx, serverID, membersList, memberID)
}

func (s *Service) AddChannelToServerByID(ctx context.Context, channelID, serverID string) (Result[*models.Server], error) {
	return s.addToServerList(ctx, serverID, channelsList, channelID)
}

// RemoveMemberFromServerByID unregisters memberID, then deletes the member
// row and drops the server from the member's profile.
func (s *Service) RemoveMemberFromServerByID(ctx context.Context, memberID, serverID string) (Result[*models.Server], error) {
	member, err := load[models.Member](ctx, s, database.Members, memberID)
	if err != nil {
		return Result[*models.Server]{}, err
	}

	res, err := s.removeFromServerList(ctx, serverID, membersList, memberID)
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.remove(ctx, memberID); err != nil {
		return Result[*models.Server]{}, err
	}
	if member != nil {
		if err := s.unlinkProfileServer(ctx, member.ProfileId, serverID); err != nil {
			return Result[*models.Server]{}, err
		}
	}

	return res, nil
}

// RemoveChannelFromServerByID unregisters channelID, then deletes the
// channel row.
func (s *Service) RemoveChannelFromServerByID(ctx context.Context, channelID, serverID string) (Result[*models.Server], error) {
	res, err := s.removeFromServerList(ctx, serverID, channelsList, channelID)
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.remove(ctx, channelID); err != nil {
		return Result[*models.Server]{}, err
	}
	return res, nil
}

func (s *Service) addToServerList(ctx context.Context, serverID, list, id string) (Result[*models.Server], error) {
	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if server == nil {
		return fail[*models.Server](KindNotFound, "Server not found")
	}

	ids := serverList(server, list)
	if slices.Contains(*ids, id) {
		return ok(server, "Already registered")
	}

	*ids = append(*ids, id)
	server.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, server.ID, map[string]any{
		list:         *ids,
		"updated_at": server.UpdatedAt,
	}); err != nil {
		return Result[*models.Server]{}, err
	}

	return ok(server, "Server updated")
}

func (s *Service) removeFromServerList(ctx context.Context, serverID, list, id string) (Result[*models.Server], error) {
	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if server == nil {
		return fail[*models.Server](KindNotFound, "Server not found")
	}

	ids := serverList(server, list)
	if !slices.Contains(*ids, id) {
		if list == membersList {
			return fail[*models.Server](KindNotFound, "Member is not part of this server.")
		}
		return fail[*models.Server](KindNotFound, "Channel is not part of this server.")
	}

	*ids = withoutID(*ids, id)
	server.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, server.ID, map[string]any{
		list:         *ids,
		"updated_at": server.UpdatedAt,
	}); err != nil {
		return Result[*models.Server]{}, err
	}

	return ok(server, "Server updated")
}

func serverList(server *models.Server, list string) *[]string {
	if list == membersList {
		return &server.Members
	}
	return &server.Channels
}

func (s *Service) GetServerByID(ctx context.Context, serverID string) (Result[*models.Server], error) {
	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	return serverResult(server, err)
}

func (s *Service) GetServerByInviteCode(ctx context.Context, inviteCode string) (Result[*models.Server], error) {
	if inviteCode == "" {
		return fail[*models.Server](KindValidation, "Please enter a valid server link!")
	}
	server, err := findFirst[models.Server](ctx, s, database.Servers, database.Filter{"invite_code": inviteCode})
	return serverResult(server, err)
}

func (s *Service) GetServerByChannelID(ctx context.Context, channelID string) (Result[*models.Server], error) {
	channel, err := load[models.Channel](ctx, s, database.Channels, channelID)
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if channel == nil {
		return fail[*models.Server](KindNotFound, "Channel not found")
	}

	server, err := load[models.Server](ctx, s, database.Servers, channel.ServerId)
	return serverResult(server, err)
}

func serverResult(server *models.Server, err error) (Result[*models.Server], error) {
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if server == nil {
		return fail[*models.Server](KindNotFound, "Server not found")
	}
	return ok(server, "Server found")
}

// GetAllServersByProfileID resolves the profile's server list. A profile
// that does not exist has no servers.
func (s *Service) GetAllServersByProfileID(ctx context.Context, profileID string) (Result[[]models.Server], error) {
	profile, err := load[models.Profile](ctx, s, database.Profiles, profileID)
	if err != nil {
		return Result[[]models.Server]{}, err
	}
	if profile == nil {
		return ok([]models.Server{}, "Servers found")
	}

	servers, err := loadAll[models.Server](ctx, s, database.Servers, profile.Servers)
	if err != nil {
		return Result[[]models.Server]{}, err
	}
	return ok(servers, "Servers found")
}

// GetFirstServerByProfileID picks the server a profile lands on after
// sign-in.
func (s *Service) GetFirstServerByProfileID(ctx context.Context, profileID string) (Result[*models.Server], error) {
	res, err := s.GetAllServersByProfileID(ctx, profileID)
	if err != nil {
		return Result[*models.Server]{}, err
	}
	if len(res.Data) == 0 {
		return fail[*models.Server](KindNotFound, "Server not found")
	}
	return ok(&res.Data[0], "Server found")
}

// GetServerWithMembersAndChannelsByServerID resolves both id lists. Members
// come highest role first, channels oldest first, and ids that no longer
// resolve are dropped.
func (s *Service) GetServerWithMembersAndChannelsByServerID(ctx context.Context, serverID string) (Result[*models.ServerDetails], error) {
	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	if err != nil {
		return Result[*models.ServerDetails]{}, err
	}
	if server == nil {
		return fail[*models.ServerDetails](KindNotFound, "Server not found")
	}

	details, err := s.serverDetails(ctx, server)
	if err != nil {
		return Result[*models.ServerDetails]{}, err
	}
	return ok(details, "Server found")
}

// GetServerWithMembersAndChannelsByServerIDAndProfileID is the member-only
// variant. A profile outside the server gets no data.
func (s *Service) GetServerWithMembersAndChannelsByServerIDAndProfileID(ctx context.Context, serverID, profileID string) (Result[*models.ServerDetails], error) {
	res, err := s.GetServerWithMembersAndChannelsByServerID(ctx, serverID)
	if err != nil || !res.OK() {
		return res, err
	}

	for _, m := range res.Data.Members {
		if m.ProfileId == profileID {
			return res, nil
		}
	}
	return fail[*models.ServerDetails](KindAuthorization, "Profile is not a member of this server.")
}

// GetServerByInviteCodeAndMemberCheck is used by the invite flow to avoid
// joining twice.
func (s *Service) GetServerByInviteCodeAndMemberCheck(ctx context.Context, inviteCode, profileID string) (Result[InviteCheck], error) {
	res, err := s.GetServerByInviteCode(ctx, inviteCode)
	if err != nil {
		return Result[InviteCheck]{}, err
	}
	if !res.OK() {
		return relay[InviteCheck](res)
	}

	member, err := s.memberOf(ctx, res.Data.ID, profileID)
	if err != nil {
		return Result[InviteCheck]{}, err
	}

	check := InviteCheck{Server: res.Data, IsMember: member != nil}
	if check.IsMember {
		return ok(check, "Already a member")
	}
	return ok(check, "Server found")
}

func (s *Service) serverDetails(ctx context.Context, server *models.Server) (*models.ServerDetails, error) {
	members, err := loadAll[models.Member](ctx, s, database.Members, server.Members)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(members, compareMembers)

	resolved := make([]models.MemberWithProfile, 0, len(members))
	for _, m := range members {
		profile, err := load[models.Profile](ctx, s, database.Profiles, m.ProfileId)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, models.MemberWithProfile{Member: m, Profile: profile})
	}

	channels, err := loadAll[models.Channel](ctx, s, database.Channels, server.Channels)
	if err != nil {
		return nil, err
	}
	sortByCreated(channels, func(c models.Channel) time.Time { return c.CreatedAt })

	return &models.ServerDetails{
		Server:   *server,
		Members:  resolved,
		Channels: channels,
	}, nil
}
