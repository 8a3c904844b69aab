package models

import "time"

// Thread groups an ordered sequence of turns under one user/bot pair.
type Thread struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	BotID         int64     `json:"bot_id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}
