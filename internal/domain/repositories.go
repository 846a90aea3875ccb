package domain

import (
	"context"
)

// GameRepository provides access to the games collection
type GameRepository interface {
	// ListGames returns one page of games matching the query
	ListGames(ctx context.Context, q GameQuery) (GamePage, error)

	// GetGame returns the full record for a game
	GetGame(ctx context.Context, id int) (*GameDetail, error)

	// ListGenres returns all genre names usable as a filter
	ListGenres(ctx context.Context) ([]string, error)

	// ListPlatforms returns all platform names usable as a filter
	ListPlatforms(ctx context.Context) ([]string, error)
}

// ReviewRepository provides critic and user reviews
type ReviewRepository interface {
	// GetReviews returns the review summary for a game
	GetReviews(ctx context.Context, id int) (*ReviewSummary, error)

	// AddReview submits a user review and returns the created record
	AddReview(ctx context.Context, id int, in ReviewInput) (*UserReview, error)
}

// NewsRepository provides news feeds for the home screen
type NewsRepository interface {
	GetNews(ctx context.Context) ([]Article, error)
	GetConsoleNews(ctx context.Context) ([]Article, error)
}

// CatalogClient combines everything a catalog backend must implement
type CatalogClient interface {
	GameRepository
	ReviewRepository
	NewsRepository
}
