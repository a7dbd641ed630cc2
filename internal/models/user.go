package models

import (
	"errors"
	"fmt"
	"time"
)

// User represents a platform account that owns one or more rosters
type User struct {
	// Identity: ID is "{platform}:{external_id}"
	ID         string   `json:"id"`
	Platform   Platform `json:"platform" badgerhold:"index"`
	ExternalID string   `json:"external_id"`

	// Display
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`

	// Leagues this user belongs to, by league ID
	Leagues []string `json:"leagues,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserKey builds the composite user key
func UserKey(platform Platform, externalID string) string {
	return fmt.Sprintf("%s:%s", platform, externalID)
}

// Validate checks the user is well-formed enough to store
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("user ID is required")
	}
	if u.ExternalID == "" {
		return errors.New("user external ID is required")
	}
	return nil
}

// InLeague reports whether the user is a member of the given league
func (u *User) InLeague(leagueID string) bool {
	for _, id := range u.Leagues {
		if id == leagueID {
			return true
		}
	}
	return false
}
