package domain

import "time"

// NotificationPreferences are the channels a user agreed to be contacted on.
type NotificationPreferences struct {
	Email bool
	SMS   bool
	Push  bool
}

// DefaultNotificationPreferences mirrors what the storefront shows a fresh account.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, SMS: false, Push: true}
}

// User is the domain model for storefront accounts, customers and administrators alike.
type User struct {
	ID                   string
	Name                 string
	Email                string
	PasswordHash         string
	Phone                string
	Address              string
	Role                 Role
	Notifications        NotificationPreferences
	ResetPasswordToken   string
	ResetPasswordExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsAdmin reports whether the user carries the administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ProfileUpdate lists the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name          *string
	Phone         *string
	Address       *string
	Notifications *NotificationPreferences
}
