package models

import "time"

// Player is an anonymous visitor identified by a browser cookie. The
// player's cumulative stats slot hangs off this row.
type Player struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
}
