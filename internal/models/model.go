package models

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	ImageFile    string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// IsAuthenticated reports whether u represents a logged-in visitor.
// A nil *User is the anonymous visitor.
func (u *User) IsAuthenticated() bool {
	return u != nil
}

type Post struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	CreatedAt time.Time
}

type Inquiry struct {
	ID        int64
	Name      string
	Email     string
	Body      string
	CreatedAt time.Time
}
