package domain

import "time"

// Game is a catalog entry as returned by the marketplace backend.
// The backend owns the schema; fields the server omits keep their
// zero values and the UI substitutes placeholders at render time.
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price,omitempty"` // in tokens; 0 = free or unset
	Genre       string    `json:"genre,omitempty"`
	Developer   string    `json:"developer,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	StoreURL    string    `json:"storeUrl,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	Featured    bool      `json:"featured,omitempty"`
	Wishlisted  bool      `json:"wishlisted,omitempty"`
	Owned       bool      `json:"owned,omitempty"`
	ReleasedAt  time.Time `json:"releasedAt,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Genre is a catalog category with its game count.
type Genre struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}
