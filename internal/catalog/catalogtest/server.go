// Package catalogtest provides an in-process fake of the catalog API for tests.
package catalogtest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/mmcdole/gamedeck/internal/catalog"
)

// Request is a request the fake server received
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Server is a fake catalog API. Its data fields may be edited between
// requests; all handlers read them under the server lock.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	Games       []catalog.GameDTO
	Genres      []string
	Platforms   []string
	News        []catalog.ArticleDTO
	ConsoleNews []catalog.ArticleDTO

	requests  []Request
	overrides map[string]http.HandlerFunc
}

// NewServer starts a fake API populated with n generated games.
// It is closed when the test ends.
func NewServer(t testing.TB, n int) *Server {
	t.Helper()

	s := &Server{
		Games:     MakeGames(n),
		Genres:    []string{"Action", "Adventure", "RPG", "Indie", "Strategy"},
		Platforms: []string{"PC", "PlayStation 5", "Xbox Series S/X", "Nintendo Switch"},
		News: []catalog.ArticleDTO{
			article("Open world RPG announced", "GameBlast"),
			article("Indie game wins award", "IndieGame News"),
		},
		ConsoleNews: []catalog.ArticleDTO{
			article("Handheld successor leaked", "Console Insider"),
		},
		overrides: make(map[string]http.HandlerFunc),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
		})
		r.Get("/games", s.handleGames)
		r.Get("/games/genres", s.handleGenres)
		r.Get("/games/platforms", s.handlePlatforms)
		r.Get("/games/{id}", s.handleGame)
		r.Get("/games/{id}/reviews", s.handleReviews)
		r.Post("/games/{id}/reviews", s.handleAddReview)
		r.Get("/news", s.handleNews)
		r.Get("/news/consoles", s.handleConsoleNews)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the API root to hand to catalog.NewClient
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// Override replaces the handler for an exact path (e.g. "/api/games")
func (s *Server) Override(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = h
}

// ClearOverride restores the default handler for path
func (s *Server) ClearOverride(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, path)
}

// Respond makes path answer with a fixed status and raw body
func (s *Server) Respond(path string, status int, body string) {
	s.Override(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

// Requests returns a copy of every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// RequestsTo returns the requests whose path equals path
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, req := range s.Requests() {
		if req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// MakeGames generates n games with ids 1..n
func MakeGames(n int) []catalog.GameDTO {
	games := make([]catalog.GameDTO, 0, n)
	for i := 1; i <= n; i++ {
		released := fmt.Sprintf("20%02d-01-15", i%25)
		games = append(games, catalog.GameDTO{
			ID:        i,
			Name:      fmt.Sprintf("Game %03d", i),
			Rating:    float64(i%6) * 0.9,
			Released:  &released,
			Genres:    []string{[]string{"Action", "RPG", "Indie"}[i%3]},
			Platforms: []string{"PC", "PlayStation 5", "Xbox Series S/X", "Nintendo Switch"}[:1+i%4],
			Playtime:  i % 40,
		})
	}
	return games
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		})
		override := s.overrides[r.URL.Path]
		s.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(body)))
		if override != nil {
			override(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize <= 0 {
		pageSize = 20
	}

	s.mu.Lock()
	matched := filterGames(s.Games, q.Get("search"), q.Get("genres"), q.Get("platforms"))
	s.mu.Unlock()
	sortGames(matched, q.Get("ordering"))

	start := min((page-1)*pageSize, len(matched))
	end := min(start+pageSize, len(matched))
	hasNext := end < len(matched)

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"games":  matched[start:end],
		"total":  len(matched),
		"next":   hasNext,
		"pagination": map[string]any{
			"page":      page,
			"page_size": pageSize,
			"total":     len(matched),
			"has_next":  hasNext,
		},
	})
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	game, ok := s.findGame(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": "error", "message": "Game not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"game": catalog.GameDetailDTO{
			GameDTO:     game,
			Description: "A game about " + strings.ToLower(game.Name) + ".",
			Developers:  []string{"Studio"},
			Publishers:  []string{"Publisher"},
			ESRBRating:  "Teen",
			Screenshots: []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
		},
	})
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	game, ok := s.findGame(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": "error", "message": "Game not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"game":   game,
		"criticReviews": []catalog.CriticReviewDTO{{
			Source: "Metacritic", Score: 88, MaxScore: 100,
			Review: "A solid experience.", Pros: []string{"Gameplay"}, Cons: []string{"Short"},
			Date: "2024-06-15",
		}},
		"userReviews": []catalog.UserReviewDTO{{
			ID: 1, Username: "GamerPro2024", Rating: 4, Review: "Great!", Date: "2024-06-20", Helpful: 15,
		}},
		"userRating": map[string]any{"average": 4.0, "total": 1},
	})
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.findGame(chi.URLParam(r, "id")); !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": "error", "message": "Game not found"})
		return
	}
	body, _ := io.ReadAll(r.Body)
	var in struct {
		Username *string `json:"username"`
		Rating   *int    `json:"rating"`
		Review   *string `json:"review"`
	}
	if err := sonic.Unmarshal(body, &in); err != nil || in.Username == nil || in.Rating == nil || in.Review == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": "error", "message": "Missing required fields: username, rating, review",
		})
		return
	}
	if *in.Rating < 1 || *in.Rating > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "Rating must be between 1 and 5"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Review added successfully",
		"review": catalog.UserReviewDTO{
			ID: 2, Username: *in.Username, Rating: *in.Rating, Review: *in.Review, Date: "2024-06-25",
		},
	})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "genres": s.Genres})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "platforms": s.Platforms})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "news": s.News})
}

func (s *Server) handleConsoleNews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "articles": s.ConsoleNews})
}

func (s *Server) findGame(rawID string) (catalog.GameDTO, bool) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return catalog.GameDTO{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.Games {
		if g.ID == id {
			return g, true
		}
	}
	return catalog.GameDTO{}, false
}

func filterGames(games []catalog.GameDTO, search, genre, platform string) []catalog.GameDTO {
	out := make([]catalog.GameDTO, 0, len(games))
	for _, g := range games {
		if search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			continue
		}
		if genre != "" && !containsFold(g.Genres, genre) {
			continue
		}
		if platform != "" && !containsFold(g.Platforms, platform) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func sortGames(games []catalog.GameDTO, ordering string) {
	released := func(g catalog.GameDTO) string {
		if g.Released == nil {
			return ""
		}
		return *g.Released
	}
	switch ordering {
	case "name":
		slices.SortStableFunc(games, func(a, b catalog.GameDTO) int { return strings.Compare(a.Name, b.Name) })
	case "-name":
		slices.SortStableFunc(games, func(a, b catalog.GameDTO) int { return strings.Compare(b.Name, a.Name) })
	case "released":
		slices.SortStableFunc(games, func(a, b catalog.GameDTO) int { return strings.Compare(released(a), released(b)) })
	case "-released":
		slices.SortStableFunc(games, func(a, b catalog.GameDTO) int { return strings.Compare(released(b), released(a)) })
	case "-rating":
		slices.SortStableFunc(games, func(a, b catalog.GameDTO) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		})
	}
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func article(title, source string) catalog.ArticleDTO {
	a := catalog.ArticleDTO{
		Title:       title,
		Description: title + ".",
		URL:         "#",
		PublishedAt: "2024-12-20T10:00:00Z",
	}
	a.Source.Name = source
	return a
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
