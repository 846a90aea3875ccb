package browse

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/pager"
)

// GamesController is the incremental list behind the games screen
type GamesController = pager.Controller[domain.Filter, domain.Game, int]

// Service orchestrates catalog client calls for the screens and the CLI.
type Service struct {
	client          domain.CatalogClient
	logger          *slog.Logger
	pageSize        int
	quickSearchSize int
}

// Option configures a Service
type Option func(*Service)

// WithPageSize sets the games list page size
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithQuickSearchSize sets how many results the search-as-you-type box shows
func WithQuickSearchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.quickSearchSize = n
		}
	}
}

// NewService creates a new browse service.
func NewService(client domain.CatalogClient, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		client:          client,
		logger:          logger,
		pageSize:        domain.DefaultPageSize,
		quickSearchSize: domain.QuickSearchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PageSize returns the games list page size
func (s *Service) PageSize() int {
	return s.pageSize
}

// FetchPage implements pager.Source for the games list
func (s *Service) FetchPage(ctx context.Context, f domain.Filter, page int) (pager.Page[domain.Game], error) {
	res, err := s.client.ListGames(ctx, domain.GameQuery{Filter: f, Page: page, PageSize: s.pageSize})
	if err != nil {
		s.logger.Error("failed to fetch games", "page", page, "filter", f, "error", err)
		return pager.Page[domain.Game]{}, err
	}
	return pager.Page[domain.Game]{Items: res.Games, Total: res.Total, Hint: res.Hint}, nil
}

// NewGamesController returns an empty controller keyed by game ID
func (s *Service) NewGamesController() *GamesController {
	return pager.New[domain.Filter, domain.Game, int](s, gameID, pager.WithLogger(s.logger))
}

func gameID(g domain.Game) int { return g.ID }

// QuickSearch returns the first few matches for the search box.
// Queries shorter than two characters return nothing without a request.
func (s *Service) QuickSearch(ctx context.Context, query string) ([]domain.Game, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < domain.QuickSearchMinLen {
		return nil, nil
	}
	res, err := s.client.ListGames(ctx, domain.GameQuery{
		Filter:   domain.DefaultFilter().WithSearch(query),
		Page:     1,
		PageSize: s.quickSearchSize,
	})
	if err != nil {
		s.logger.Error("quick search failed", "query", query, "error", err)
		return nil, err
	}
	s.logger.Debug("quick search", "query", query, "count", len(res.Games))
	return res.Games, nil
}

// SubmitReview validates the review and posts it
func (s *Service) SubmitReview(ctx context.Context, gameID int, in domain.ReviewInput) (*domain.UserReview, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Review = strings.TrimSpace(in.Review)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	review, err := s.client.AddReview(ctx, gameID, in)
	if err != nil {
		s.logger.Error("failed to add review", "gameID", gameID, "error", err)
		return nil, err
	}
	s.logger.Info("review added", "gameID", gameID, "reviewID", review.ID)
	return review, nil
}
