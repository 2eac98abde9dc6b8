package models

import "time"

// AdminSession is the server-side half of a dashboard session. The browser
// only ever holds a signed reference to ID.
type AdminSession struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Authenticated bool      `gorm:"not null;default:false" json:"authenticated"`
	ExpiresAt     time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (AdminSession) TableName() string { return "admin_sessions" }

func (s *AdminSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
