package chat

import (
	"context"
	"hudori/internal/database"
	"hudori/internal/models"
)

// JoinServerByInviteCode makes profileID a GUEST of the server behind
// inviteCode and announces it.
func (s *Service) JoinServerByInviteCode(ctx context.Context, inviteCode, profileID string) (Result[*models.Member], error) {
	check, err := s.GetServerByInviteCodeAndMemberCheck(ctx, inviteCode, profileID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if !check.OK() {
		return relay[*models.Member](check)
	}
	if check.Data.IsMember {
		return fail[*models.Member](KindConflict, "Already a member of this server.")
	}

	res, err := s.CreateMember(ctx, string(models.RoleGuest), profileID, check.Data.Server.ID)
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.announce(ctx, models.ActionJoin, res.Data, "%s joined the server."); err != nil {
		return Result[*models.Member]{}, err
	}
	res.Message = "Joined server"
	return res, nil
}

// LeaveServer removes profileID from serverID. The creator can only delete
// the server, never leave it.
func (s *Service) LeaveServer(ctx context.Context, serverID, profileID string) (Result[*models.Member], error) {
	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if server == nil {
		return fail[*models.Member](KindNotFound, "Server not found")
	}
	if server.CreatorId == profileID {
		return fail[*models.Member](KindAuthorization, "The creator cannot leave the server.")
	}

	member, err := s.memberOf(ctx, server.ID, profileID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if member == nil {
		return fail[*models.Member](KindNotFound, "Not a member of this server.")
	}

	res, err := s.DeleteMemberByID(ctx, member.ID)
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.announce(ctx, models.ActionLeave, member, "%s left the server."); err != nil {
		return Result[*models.Member]{}, err
	}
	res.Message = "Left server"
	return res, nil
}

// KickMember removes target on behalf of actor. The actor must outrank the
// target.
func (s *Service) KickMember(ctx context.Context, actorMemberID, targetMemberID string) (Result[*models.Member], error) {
	actor, target, res, err := s.actorAndTarget(ctx, actorMemberID, targetMemberID)
	if err != nil || !res.OK() {
		return res, err
	}
	if !actor.Role.CanManage(target.Role) {
		return fail[*models.Member](KindAuthorization, "You do not have permission to kick this member.")
	}

	res, err = s.DeleteMemberByID(ctx, target.ID)
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.announce(ctx, models.ActionKick, target, "%s was kicked from the server."); err != nil {
		return Result[*models.Member]{}, err
	}
	res.Message = "Member kicked"
	return res, nil
}

// ChangeMemberRole sets target's role on behalf of actor. The actor must
// outrank both the target's current role and the new one.
func (s *Service) ChangeMemberRole(ctx context.Context, actorMemberID, targetMemberID, role string) (Result[*models.Member], error) {
	newRole, valid := models.ParseRole(role)
	if !valid || !newRole.Assignable() {
		return fail[*models.Member](KindValidation, "Invalid role.")
	}

	actor, target, res, err := s.actorAndTarget(ctx, actorMemberID, targetMemberID)
	if err != nil || !res.OK() {
		return res, err
	}
	if !actor.Role.CanManage(target.Role) || !actor.Role.Outranks(newRole) {
		return fail[*models.Member](KindAuthorization, "You do not have permission to change this member's role.")
	}

	res, err = s.UpdateRoleByID(ctx, target.ID, string(newRole))
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.announce(ctx, models.ActionRole, res.Data, "%s is now %s.", newRole); err != nil {
		return Result[*models.Member]{}, err
	}
	return res, nil
}

// actorAndTarget loads two distinct members of the same server.
func (s *Service) actorAndTarget(ctx context.Context, actorID, targetID string) (*models.Member, *models.Member, Result[*models.Member], error) {
	if actorID == targetID {
		res, _ := fail[*models.Member](KindValidation, "You cannot act on your own membership.")
		return nil, nil, res, nil
	}

	actor, err := load[models.Member](ctx, s, database.Members, actorID)
	if err != nil {
		return nil, nil, Result[*models.Member]{}, err
	}
	target, err := load[models.Member](ctx, s, database.Members, targetID)
	if err != nil {
		return nil, nil, Result[*models.Member]{}, err
	}
	if actor == nil || target == nil {
		res, _ := fail[*models.Member](KindNotFound, "Member not found")
		return nil, nil, res, nil
	}
	if actor.ServerId != target.ServerId {
		res, _ := fail[*models.Member](KindAuthorization, "Members belong to different servers.")
		return nil, nil, res, nil
	}

	return actor, target, Result[*models.Member]{}, nil
}
