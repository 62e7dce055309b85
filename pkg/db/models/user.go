package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/cellar-backend/pkg/enums"
)

// User mirrors an entry of the externally-owned users collection. Fields the
// ledger does not know about (password hashes, emails, ...) are kept verbatim
// so writing the collection back never drops them.
type User struct {
	ID          string
	Username    string
	Role        enums.Role
	IsActive    bool
	LastTimeIn  *time.Time
	LastTimeOut *time.Time

	extra map[string]json.RawMessage
}

type userFields struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastTimeIn  *time.Time `json:"lastTimeIn,omitempty"`
	LastTimeOut *time.Time `json:"lastTimeOut,omitempty"`
}

var userKnownKeys = []string{"id", "username", "role", "isActive", "lastTimeIn", "lastTimeOut"}

// UnmarshalJSON decodes known fields and stashes the rest.
func (u *User) UnmarshalJSON(data []byte) error {
	var known userFields
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}
	for _, key := range userKnownKeys {
		delete(raw, key)
	}

	*u = User{
		ID:          known.ID,
		Username:    known.Username,
		Role:        known.Role,
		IsActive:    known.IsActive,
		LastTimeIn:  known.LastTimeIn,
		LastTimeOut: known.LastTimeOut,
	}
	if len(raw) > 0 {
		u.extra = raw
	}
	return nil
}

// MarshalJSON writes known fields over the preserved extras.
func (u User) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(userFields{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastTimeIn:  u.LastTimeIn,
		LastTimeOut: u.LastTimeOut,
	})
	if err != nil {
		return nil, err
	}
	if len(u.extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(u.extra)+len(userKnownKeys))
	for k, v := range u.extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Extra returns a preserved field the ledger does not model.
func (u User) Extra(key string) (json.RawMessage, bool) {
	v, ok := u.extra[key]
	return v, ok
}

// Clone copies the user including preserved fields.
func (u User) Clone() User {
	out := u
	out.LastTimeIn = cloneTime(u.LastTimeIn)
	out.LastTimeOut = cloneTime(u.LastTimeOut)
	if u.extra != nil {
		out.extra = make(map[string]json.RawMessage, len(u.extra))
		for k, v := range u.extra {
			out.extra[k] = v
		}
	}
	return out
}
