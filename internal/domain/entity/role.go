// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a user can have on the platform.
type Role string

const (
	// RoleOrganizer indicates a user who can host events.
	RoleOrganizer Role = "ORGANIZER"
	// RoleAttendee indicates a user who registers for events.
	RoleAttendee Role = "ATTENDEE"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleOrganizer, RoleAttendee:
		return true
	default:
		return false
	}
}
