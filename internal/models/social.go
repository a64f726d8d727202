package models

import "time"

type Friendship struct {
	ID        string           `json:"id,omitempty"`
	Sender    string           `json:"sender"`
	Receiver  string           `json:"receiver"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Other returns the profile id on the other side of the friendship.
func (f Friendship) Other(profileId string) string {
	if f.Sender == profileId {
		return f.Receiver
	}
	return f.Sender
}

// Friend is an accepted friendship joined with the other party's profile.
type Friend struct {
	FriendshipId string   `json:"friendship_id"`
	Profile      *Profile `json:"profile"`
}

type DirectMessage struct {
	ID           string    `json:"id,omitempty"`
	Content      string    `json:"content"`
	FileUrl      string    `json:"file_url,omitempty"`
	Sender       string    `json:"sender"`
	Receiver     string    `json:"receiver"`
	FriendshipId string    `json:"friendship_id"`
	Deleted      bool      `json:"deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Report struct {
	ID                 string       `json:"id,omitempty"`
	ReporterId         string       `json:"reporter_id"`
	ReporterUsername   string       `json:"reporter_username"`
	ReportedMemberId   string       `json:"reported_member_id"`
	ReportedMemberRole Role         `json:"reported_member_role"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Tags               []string     `json:"tags"`
	Status             ReportStatus `json:"status"`
	ServerId           string       `json:"server_id"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// SystemMessage is an append-only audit entry scoped to a server.
type SystemMessage struct {
	ID        string       `json:"id,omitempty"`
	Content   string       `json:"content"`
	Action    SystemAction `json:"action"`
	MemberId  string       `json:"member_id"`
	ProfileId string       `json:"profile_id"`
	ServerId  string       `json:"server_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// TimelineEntry is either a channel message or a system message, never both.
type TimelineEntry struct {
	Message       *Message       `json:"message,omitempty"`
	SystemMessage *SystemMessage `json:"system_message,omitempty"`
}

func (e TimelineEntry) CreatedAt() time.Time {
	if e.Message != nil {
		return e.Message.CreatedAt
	}
	if e.SystemMessage != nil {
		return e.SystemMessage.CreatedAt
	}
	return time.Time{}
}
