package browse

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/sourcegraph/conc/pool"
)

// homeListSize is how many games each home column shows
const homeListSize = 20

// Section names a part of the home screen
type Section string

const (
	SectionPopular     Section = "popular"
	SectionRecent      Section = "recent"
	SectionNews        Section = "news"
	SectionConsoleNews Section = "console_news"
)

var homeSections = []Section{SectionPopular, SectionRecent, SectionNews, SectionConsoleNews}

// HomeData is everything the home screen shows. Sections load
// independently; Failed holds the error of each section that did not.
type HomeData struct {
	Popular     []domain.Game
	Recent      []domain.Game
	News        []domain.Article
	ConsoleNews []domain.Article
	Failed      map[Section]error
}

// Home loads the home screen sections concurrently.
// It only returns an error when every section failed.
func (s *Service) Home(ctx context.Context) (*HomeData, error) {
	var (
		p    = pool.New().WithContext(ctx)
		mu   sync.Mutex
		data = &HomeData{Failed: make(map[Section]error)}
	)

	record := func(sec Section, err error) error {
		if err == nil {
			return nil
		}
		mu.Lock()
		data.Failed[sec] = err
		mu.Unlock()
		s.logger.Error("home section failed", "section", sec, "error", err)
		return fmt.Errorf("%s: %w", sec, err)
	}

	games := func(sec Section, ordering domain.Ordering, dst *[]domain.Game) {
		p.Go(func(ctx context.Context) error {
			res, err := s.client.ListGames(ctx, domain.GameQuery{
				Filter:   domain.DefaultFilter().WithOrdering(ordering),
				Page:     1,
				PageSize: homeListSize,
			})
			if err != nil {
				return record(sec, err)
			}
			mu.Lock()
			*dst = res.Games
			mu.Unlock()
			return nil
		})
	}
	articles := func(sec Section, fetch func(context.Context) ([]domain.Article, error), dst *[]domain.Article) {
		p.Go(func(ctx context.Context) error {
			list, err := fetch(ctx)
			if err != nil {
				return record(sec, err)
			}
			mu.Lock()
			*dst = list
			mu.Unlock()
			return nil
		})
	}

	games(SectionPopular, domain.OrderAdded, &data.Popular)
	games(SectionRecent, domain.OrderNewest, &data.Recent)
	articles(SectionNews, s.client.GetNews, &data.News)
	articles(SectionConsoleNews, s.client.GetConsoleNews, &data.ConsoleNews)

	err := p.Wait()
	if len(data.Failed) == len(homeSections) {
		return nil, err
	}
	s.logger.Debug("home loaded",
		"popular", len(data.Popular),
		"recent", len(data.Recent),
		"news", len(data.News),
		"consoleNews", len(data.ConsoleNews),
		"failed", len(data.Failed),
	)
	return data, nil
}

// DetailData is the detail screen payload
type DetailData struct {
	Game       *domain.GameDetail
	Reviews    *domain.ReviewSummary
	ReviewsErr error // reviews are optional; the screen renders without them
}

// Detail loads a game and its reviews concurrently
func (s *Service) Detail(ctx context.Context, id int) (*DetailData, error) {
	var (
		p    = pool.New().WithContext(ctx)
		data = &DetailData{}
	)

	p.Go(func(ctx context.Context) error {
		game, err := s.client.GetGame(ctx, id)
		if err != nil {
			return err
		}
		data.Game = game
		return nil
	})
	p.Go(func(ctx context.Context) error {
		reviews, err := s.client.GetReviews(ctx, id)
		if err != nil {
			s.logger.Warn("failed to fetch reviews", "gameID", id, "error", err)
			data.ReviewsErr = err
			return nil
		}
		data.Reviews = reviews
		return nil
	})

	if err := p.Wait(); err != nil {
		s.logger.Error("failed to fetch game", "gameID", id, "error", err)
		return nil, err
	}
	return data, nil
}

// Facets are the values offered by the genre and platform pickers
type Facets struct {
	Genres    []string
	Platforms []string
}

// Facets loads genres and platforms concurrently
func (s *Service) Facets(ctx context.Context) (*Facets, error) {
	var (
		p      = pool.New().WithContext(ctx)
		facets = &Facets{}
	)

	p.Go(func(ctx context.Context) error {
		genres, err := s.client.ListGenres(ctx)
		if err != nil {
			return fmt.Errorf("genres: %w", err)
		}
		facets.Genres = genres
		return nil
	})
	p.Go(func(ctx context.Context) error {
		platforms, err := s.client.ListPlatforms(ctx)
		if err != nil {
			return fmt.Errorf("platforms: %w", err)
		}
		facets.Platforms = platforms
		return nil
	})

	if err := p.Wait(); err != nil {
		s.logger.Error("failed to fetch facets", "error", err)
		return nil, err
	}
	return facets, nil
}
