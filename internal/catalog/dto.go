package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/bytedance/sonic"
)

// Envelope is the status wrapper every endpoint returns
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NextPointer is the list "next" field, which the server sends as a bool,
// a URL string, or null.
type NextPointer struct {
	Set  bool // field was present and non-null
	More bool
}

// UnmarshalJSON accepts true/false, a string (non-empty means more) or null
func (n *NextPointer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = NextPointer{}
		return nil
	case bytes.Equal(data, []byte("true")):
		*n = NextPointer{Set: true, More: true}
		return nil
	case bytes.Equal(data, []byte("false")):
		*n = NextPointer{Set: true, More: false}
		return nil
	}
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = NextPointer{Set: true, More: strings.TrimSpace(s) != ""}
	return nil
}

// Pagination is the nested pagination block of the games endpoint
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// ListEnvelope is a list response before adaptation.
// Items holds the raw array found under the resource's item key.
type ListEnvelope struct {
	Envelope
	Items      json.RawMessage `json:"-"`
	Total      *int            `json:"total"`
	Next       NextPointer     `json:"next"`
	HasMore    *bool           `json:"hasMore"`
	Pagination *Pagination     `json:"pagination"`
}

// GameDTO is a game summary on the wire
type GameDTO struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	BackgroundImage *string  `json:"background_image"`
	Rating          float64  `json:"rating"`
	Released        *string  `json:"released"`
	Genres          []string `json:"genres"`
	Platforms       []string `json:"platforms"`
	Metacritic      *int     `json:"metacritic"`
	Playtime        int      `json:"playtime"`
}

// GameDetailDTO is the full game record on the wire
type GameDetailDTO struct {
	GameDTO
	Description string   `json:"description"`
	Developers  []string `json:"developers"`
	Publishers  []string `json:"publishers"`
	ESRBRating  string   `json:"esrb_rating"`
	Screenshots []string `json:"screenshots"`
}

type gameDetailResponse struct {
	Envelope
	Game *GameDetailDTO `json:"game"`
}

type genresResponse struct {
	Envelope
	Genres []string `json:"genres"`
}

type platformsResponse struct {
	Envelope
	Platforms []string `json:"platforms"`
}

// ArticleDTO is a news article on the wire
type ArticleDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type newsResponse struct {
	Envelope
	News     []ArticleDTO `json:"news"`
	Articles []ArticleDTO `json:"articles"`
}

// CriticReviewDTO is an outlet review on the wire
type CriticReviewDTO struct {
	Source   string   `json:"source"`
	Score    float64  `json:"score"`
	MaxScore float64  `json:"maxScore"`
	Review   string   `json:"review"`
	Pros     []string `json:"pros"`
	Cons     []string `json:"cons"`
	Date     string   `json:"date"`
}

// UserReviewDTO is a user review on the wire
type UserReviewDTO struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Review   string `json:"review"`
	Date     string `json:"date"`
	Helpful  int    `json:"helpful"`
}

type reviewsResponse struct {
	Envelope
	Game          GameDTO           `json:"game"`
	CriticReviews []CriticReviewDTO `json:"criticReviews"`
	UserReviews   []UserReviewDTO   `json:"userReviews"`
	UserRating    struct {
		Average float64 `json:"average"`
		Total   int     `json:"total"`
	} `json:"userRating"`
}

type addReviewResponse struct {
	Envelope
	Review *UserReviewDTO `json:"review"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
