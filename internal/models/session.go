package models

import "time"

// Session is an issued operator token, kept so it can be revoked
type Session struct {
	ID        string    `json:"id"` // token jti
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
