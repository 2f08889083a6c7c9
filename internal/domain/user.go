package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// User is a public profile. Credentials live outside this service.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile is a user together with social counters.
type Profile struct {
	User
	Followers int `json:"followers"`
	Following int `json:"following"`
	Recipes   int `json:"recipes"`
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// Validate normalises and checks a user record.
func (u *User) Validate() error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if !usernamePattern.MatchString(u.Username) {
		return fmt.Errorf("%w: username must be 3-30 characters of a-z, 0-9 or _", ErrInvalid)
	}
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
	if len(u.Bio) > 280 {
		return fmt.Errorf("%w: bio longer than 280 characters", ErrInvalid)
	}
	return nil
}
