package models

import "strings"

// MemberStatus is the account status reported by the backend.
type MemberStatus string

const (
	StatusActive   MemberStatus = "active"
	StatusInactive MemberStatus = "inactive"
	StatusBlocked  MemberStatus = "blocked"
	StatusPending  MemberStatus = "pending"
	StatusRejected MemberStatus = "rejected"
)

// AuthUser is the signed-in account.
type AuthUser struct {
	ID            FlexString   `json:"id,omitempty"`
	Name          string       `json:"name,omitempty"`
	Email         string       `json:"email,omitempty"`
	ProfileType   string       `json:"profile_type,omitempty"`
	Status        MemberStatus `json:"status,omitempty"`
	RoleID        FlexString   `json:"role_id,omitempty"`
	RefCode       string       `json:"ref_code,omitempty"`
	ReferenceCode string       `json:"reference_code,omitempty"`
}

// IsActive compares the status case-insensitively.
func (u *AuthUser) IsActive() bool {
	return u != nil && strings.EqualFold(string(u.Status), string(StatusActive))
}

// IsInactive is true for inactive or blocked accounts.
func (u *AuthUser) IsInactive() bool {
	if u == nil {
		return false
	}
	s := strings.ToLower(string(u.Status))
	return s == string(StatusInactive) || s == string(StatusBlocked)
}

// Session is an immutable view of a visitor's auth state.
type Session struct {
	Token         string    `json:"-"`
	User          *AuthUser `json:"user"`
	Authenticated bool      `json:"authenticated"`
	Loading       bool      `json:"loading"`
}
