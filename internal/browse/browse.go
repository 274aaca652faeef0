// Package browse holds the client-side filter, sort, and pagination
// logic shared by every catalog-like page. All functions are pure over
// lists the server already returned; re-filtering never costs a round
// trip.
package browse

import (
	"sort"
	"strings"
	"time"

	"github.com/davemunger/playdeck/pkg/domain"
)

// SortKey selects the comparator applied to a list before paging.
type SortKey string

const (
	SortByName    SortKey = "name"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRecent    SortKey = "recent"
)

// SortKeys is the cycle order used by the sort toggle.
var SortKeys = []SortKey{SortByName, SortPriceAsc, SortPriceDesc, SortRecent}

// NextSortKey returns the key after k in the cycle, wrapping around.
// An unknown key restarts the cycle.
func NextSortKey(k SortKey) SortKey {
	for i, s := range SortKeys {
		if s == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortKeys[0]
}

// MatchGame reports whether the search term matches the game's name or
// description, case-insensitively. An empty term matches everything.
func MatchGame(g domain.Game, term string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(g.Name), term) ||
		strings.Contains(strings.ToLower(g.Description), term)
}

// FilterGames returns the games matching term, preserving order.
func FilterGames(games []domain.Game, term string) []domain.Game {
	if strings.TrimSpace(term) == "" {
		return games
	}
	out := make([]domain.Game, 0, len(games))
	for _, g := range games {
		if MatchGame(g, term) {
			out = append(out, g)
		}
	}
	return out
}

// SortGames returns a sorted copy of games. Sorting is stable: games
// that compare equal keep their relative order.
func SortGames(games []domain.Game, key SortKey) []domain.Game {
	out := make([]domain.Game, len(games))
	copy(out, games)
	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRecent:
		sort.SliceStable(out, func(i, j int) bool { return releaseTime(out[i]).After(releaseTime(out[j])) })
	default: // SortByName
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	return out
}

func releaseTime(g domain.Game) time.Time {
	if !g.ReleasedAt.IsZero() {
		return g.ReleasedAt
	}
	return g.CreatedAt
}

// SortLibrary returns a sorted copy of library entries. SortRecent
// orders by purchase date, newest first; price keys use the price paid.
func SortLibrary(entries []domain.LibraryEntry, key SortKey) []domain.LibraryEntry {
	out := make([]domain.LibraryEntry, len(entries))
	copy(out, entries)
	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PricePaid < out[j].PricePaid })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PricePaid > out[j].PricePaid })
	case SortRecent:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Game.Name) < strings.ToLower(out[j].Game.Name)
		})
	}
	return out
}

// Page slices items into fixed-size pages. It returns the visible
// slice for the requested page plus the total page count. The page
// count is never below one, even for an empty list, and an
// out-of-range index clamps to the nearest valid page.
func Page[T any](items []T, size, index int) ([]T, int) {
	if size <= 0 {
		size = 1
	}
	pages := (len(items) + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if index < 0 {
		index = 0
	}
	if index >= pages {
		index = pages - 1
	}
	start := index * size
	if start >= len(items) {
		return nil, pages
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], pages
}
