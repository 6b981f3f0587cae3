package domain

import "time"

// ContactMessage is an inquiry submitted through the contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Message   string
	UserID    string
	CreatedAt time.Time
}
