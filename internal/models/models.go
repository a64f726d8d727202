package models

import "time"

type Profile struct {
	ID        string    `json:"id,omitempty"`
	UserId    string    `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageUrl  string    `json:"image_url"`
	Status    string    `json:"status"`
	Servers   []string  `json:"servers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Server struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	ImageUrl   string    `json:"image_url"`
	InviteCode string    `json:"invite_code"`
	CreatorId  string    `json:"creator_id"`
	Members    []string  `json:"members"`
	Channels   []string  `json:"channels"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Member struct {
	ID        string    `json:"id,omitempty"`
	Role      Role      `json:"role"`
	ProfileId string    `json:"profile_id"`
	ServerId  string    `json:"server_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberWithProfile is a member row with its profile resolved.
type MemberWithProfile struct {
	Member
	Profile *Profile `json:"profile"`
}

type Channel struct {
	ID        string      `json:"id,omitempty"`
	Name      string      `json:"name"`
	Type      ChannelType `json:"type"`
	CreatorId string      `json:"creator_id"`
	ServerId  string      `json:"server_id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ServerDetails is a server with its member and channel id lists resolved
// into rows.
type ServerDetails struct {
	Server
	Members  []MemberWithProfile `json:"members"`
	Channels []Channel           `json:"channels"`
}

type Message struct {
	ID        string    `json:"id,omitempty"`
	Content   string    `json:"content"`
	FileUrl   string    `json:"file_url,omitempty"`
	MemberId  string    `json:"member_id"`
	Username  string    `json:"username"`
	ChannelId string    `json:"channel_id"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
