package domain

import "time"

// LibraryEntry is a game the user owns, as returned by the library endpoint.
type LibraryEntry struct {
	Game        Game       `json:"game"`
	PurchasedAt time.Time  `json:"purchasedAt"`
	PricePaid   float64    `json:"pricePaid,omitempty"`
	LastPlayed  *time.Time `json:"lastPlayed,omitempty"`
	Hours       float64    `json:"hoursPlayed,omitempty"`
}

// TokenPack is a purchasable bundle of marketplace tokens.
type TokenPack struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Tokens   float64 `json:"tokens"`
	PriceUSD float64 `json:"priceUsd"`
	Bonus    float64 `json:"bonusTokens,omitempty"`
}

// Purchase is the receipt payload returned by the purchase endpoints.
// NewBalance is reported by the purchase endpoint itself, which is not
// the source of truth for balance; callers reconcile against a fresh
// session read after applying it.
type Purchase struct {
	OrderID    string    `json:"orderId"`
	GameID     string    `json:"gameId,omitempty"`
	PackID     string    `json:"packId,omitempty"`
	NewBalance float64   `json:"newBalance"`
	CreatedAt  time.Time `json:"createdAt"`
}
