package models

import "time"

// House is the top-level aggregate; rooms reference it by ID.
type House struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Room struct {
	ID      string `json:"id"`
	HouseID string `json:"house_id"`
	Name    string `json:"name"`
	Floor   int    `json:"floor"`
}
