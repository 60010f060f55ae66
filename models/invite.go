package models

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRevoked  InviteStatus = "revoked"
)

// Invite - приглашение скаута (таблица scout_invites).
type Invite struct {
	ID         int          `json:"id" db:"id"`
	Name       string       `json:"name,omitempty" db:"name"`
	Email      string       `json:"email" db:"email"`
	Role       UserRole     `json:"role" db:"role"`
	Token      string       `json:"token" db:"token"`
	Status     InviteStatus `json:"status" db:"status"`
	CreatedBy  string       `json:"created_by" db:"created_by"`
	ExpiresAt  time.Time    `json:"expires_at" db:"expires_at"`
	AcceptedAt *time.Time   `json:"accepted_at,omitempty" db:"accepted_at"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`

	Link string `json:"link,omitempty" db:"-"`
}

func (i Invite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Usable reports whether the invite can still be accepted.
func (i Invite) Usable(now time.Time) bool {
	return i.Status == InviteStatusPending && !i.IsExpired(now)
}

type CreateInviteInput struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
	Days  int      `json:"expires_in_days"`
}

// AcceptInviteInput - Email нужен, только если приглашение выписано без адреса.
type AcceptInviteInput struct {
	Token    string `json:"token"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
