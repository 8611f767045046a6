package types

import "fmt"

// UserID identifies a chat user across transports
type UserID string

// String returns the string representation of the user ID
func (u UserID) String() string {
	return string(u)
}

// Validate checks that the user ID is non-empty
func (u UserID) Validate() error {
	if u == "" {
		return fmt.Errorf("user ID must not be empty")
	}
	return nil
}

// Role identifies the author of a conversation entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
