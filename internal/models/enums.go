package models

import "strings"

// Role is a member's position in a server. Roles form a strict total order:
// CREATOR > ADMIN > MODERATOR > GUEST.
type Role string

const (
	RoleCreator   Role = "CREATOR"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
	RoleGuest     Role = "GUEST"
)

// Roles lists every role from highest to lowest.
var Roles = []Role{RoleCreator, RoleAdmin, RoleModerator, RoleGuest}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// Rank returns the position of r in the hierarchy, 0 for an unknown role.
func (r Role) Rank() int {
	switch r {
	case RoleCreator:
		return 4
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleGuest:
		return 1
	}
	return 0
}

// Outranks reports whether r is strictly above other.
func (r Role) Outranks(other Role) bool {
	return r.Valid() && r.Rank() > other.Rank()
}

// Assignable reports whether r can be given through a role change.
// CREATOR is only ever set when the server is created.
func (r Role) Assignable() bool {
	return r == RoleAdmin || r == RoleModerator || r == RoleGuest
}

// CanManage reports whether an actor with role r may change the role of, or
// remove, a member holding target. A MODERATOR can only act on GUESTs and the
// CREATOR on everyone but itself, both of which follow from strict ordering.
func (r Role) CanManage(target Role) bool {
	return r.Outranks(target)
}

type ChannelType string

const (
	ChannelText  ChannelType = "TEXT"
	ChannelAudio ChannelType = "AUDIO"
	ChannelVideo ChannelType = "VIDEO"
)

func ParseChannelType(s string) (ChannelType, bool) {
	t := ChannelType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case ChannelText, ChannelAudio, ChannelVideo:
		return t, true
	}
	return "", false
}

// GeneralChannelName is the bootstrap channel every server is created with.
const GeneralChannelName = "general"

func IsGeneralChannelName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), GeneralChannelName)
}

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipDeclined FriendshipStatus = "DECLINED"
)

type ReportStatus string

const (
	ReportUnsolved ReportStatus = "unsolved"
	// ReportPending is reserved; no transition currently produces it.
	ReportPending ReportStatus = "pending"
	ReportSolved  ReportStatus = "solved"
)

func ParseReportStatus(s string) (ReportStatus, bool) {
	st := ReportStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case ReportUnsolved, ReportPending, ReportSolved:
		return st, true
	}
	return "", false
}

type SystemAction string

const (
	ActionJoin  SystemAction = "JOIN"
	ActionLeave SystemAction = "LEAVE"
	ActionKick  SystemAction = "KICK"
	ActionRole  SystemAction = "ROLE"
)

func ParseSystemAction(s string) (SystemAction, bool) {
	a := SystemAction(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case ActionJoin, ActionLeave, ActionKick, ActionRole:
		return a, true
	}
	return "", false
}
