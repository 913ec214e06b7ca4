package entities

import "time"

type Client struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	ContactEmail  string    `json:"contact_email,omitempty"`
	ContactPhone  string    `json:"contact_phone,omitempty"`
	PriorityLevel string    `json:"priority_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Laboratory struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Site      string    `json:"site,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
