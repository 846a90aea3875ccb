package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Game is a catalog summary as returned by the games list endpoint
type Game struct {
	ID              int      // Unique identifier
	Name            string   // Display title
	Rating          float64  // Community rating (0-5 scale)
	Genres          []string // Genre names
	Platforms       []string // Platform names
	Released        string   // Release date (YYYY-MM-DD), empty if unknown
	BackgroundImage string   // Cover image URL, empty if none
	Metacritic      int      // Metacritic score (0 = unrated)
	Playtime        int      // Average playtime in hours
}

// maxListedPlatforms is how many platforms a summary line shows before truncating
const maxListedPlatforms = 3

// Stars renders the rating as five filled/empty stars (e.g. "★★★★☆")
func (g Game) Stars() string {
	return Stars(g.Rating)
}

// Year returns the release year, or 0 if the release date is unknown
func (g Game) Year() int {
	return ReleaseYear(g.Released)
}

// GenreLine returns a comma separated genre list
func (g Game) GenreLine() string {
	return strings.Join(g.Genres, ", ")
}

// PlatformLine returns the first few platforms, with "..." when more exist
func (g Game) PlatformLine() string {
	if len(g.Platforms) <= maxListedPlatforms {
		return strings.Join(g.Platforms, ", ")
	}
	return strings.Join(g.Platforms[:maxListedPlatforms], ", ") + "..."
}

// Stars renders a 0-5 rating as filled and empty stars
func Stars(rating float64) string {
	n := int(math.Round(rating))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// ReleaseYear extracts the year from a YYYY-MM-DD date string
func ReleaseYear(released string) int {
	if released == "" {
		return 0
	}
	t, err := time.Parse("2006-01-02", released)
	if err != nil {
		return 0
	}
	return t.Year()
}

// GameDetail is the full record shown on the detail screen
type GameDetail struct {
	Game
	Description string
	Developers  []string
	Publishers  []string
	ESRBRating  string
	Screenshots []string
}

// FormattedPlaytime returns the playtime in a human-readable format
func (d GameDetail) FormattedPlaytime() string {
	if d.Playtime <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh", d.Playtime)
}

// Article is a news entry shown on the home screen
type Article struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	PublishedAt time.Time
	Source      string
}

// CriticReview is a published review from an outlet
type CriticReview struct {
	Source   string
	Score    float64
	MaxScore float64
	Review   string
	Pros     []string
	Cons     []string
	Date     string
}

// UserReview is a review written by a user
type UserReview struct {
	ID       int
	Username string
	Rating   int
	Review   string
	Date     string
	Helpful  int
}

// UserRating aggregates user review ratings
type UserRating struct {
	Average float64
	Total   int
}

// ReviewSummary is the review payload for one game
type ReviewSummary struct {
	Game          Game
	CriticReviews []CriticReview
	UserReviews   []UserReview
	UserRating    UserRating
}

// ReviewInput is what a user submits to create a review
type ReviewInput struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Review   string `json:"review"`
}

// Validate checks the input against the rules the server enforces
func (r ReviewInput) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidReview)
	}
	if strings.TrimSpace(r.Review) == "" {
		return fmt.Errorf("%w: review text is required", ErrInvalidReview)
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
	}
	return nil
}
