package catalog

import (
	"time"

	"github.com/mmcdole/gamedeck/internal/domain"
)

// MapGame converts a wire game summary to a domain game
func MapGame(dto GameDTO) domain.Game {
	g := domain.Game{
		ID:        dto.ID,
		Name:      dto.Name,
		Rating:    dto.Rating,
		Genres:    nonNil(dto.Genres),
		Platforms: nonNil(dto.Platforms),
		Playtime:  dto.Playtime,
	}
	if dto.BackgroundImage != nil {
		g.BackgroundImage = *dto.BackgroundImage
	}
	if dto.Released != nil {
		g.Released = *dto.Released
	}
	if dto.Metacritic != nil {
		g.Metacritic = *dto.Metacritic
	}
	return g
}

// MapGames converts a page of wire games, preserving server order
func MapGames(dtos []GameDTO) []domain.Game {
	games := make([]domain.Game, 0, len(dtos))
	for _, dto := range dtos {
		games = append(games, MapGame(dto))
	}
	return games
}

// MapGameDetail converts the full wire record
func MapGameDetail(dto GameDetailDTO) *domain.GameDetail {
	esrb := dto.ESRBRating
	if esrb == "" {
		esrb = "Not Rated"
	}
	return &domain.GameDetail{
		Game:        MapGame(dto.GameDTO),
		Description: dto.Description,
		Developers:  nonNil(dto.Developers),
		Publishers:  nonNil(dto.Publishers),
		ESRBRating:  esrb,
		Screenshots: nonNil(dto.Screenshots),
	}
}

// MapArticles converts wire articles.
// Unparseable publish times are left zero rather than dropping the article.
func MapArticles(dtos []ArticleDTO) []domain.Article {
	articles := make([]domain.Article, 0, len(dtos))
	for _, dto := range dtos {
		a := domain.Article{
			Title:       dto.Title,
			Description: dto.Description,
			URL:         dto.URL,
			ImageURL:    dto.URLToImage,
			Source:      dto.Source.Name,
		}
		if t, err := time.Parse(time.RFC3339, dto.PublishedAt); err == nil {
			a.PublishedAt = t
		}
		articles = append(articles, a)
	}
	return articles
}

// MapUserReview converts a wire user review
func MapUserReview(dto UserReviewDTO) domain.UserReview {
	return domain.UserReview{
		ID:       dto.ID,
		Username: dto.Username,
		Rating:   dto.Rating,
		Review:   dto.Review,
		Date:     dto.Date,
		Helpful:  dto.Helpful,
	}
}

func mapReviewSummary(resp reviewsResponse) *domain.ReviewSummary {
	summary := &domain.ReviewSummary{
		Game: MapGame(resp.Game),
		UserRating: domain.UserRating{
			Average: resp.UserRating.Average,
			Total:   resp.UserRating.Total,
		},
	}
	for _, cr := range resp.CriticReviews {
		summary.CriticReviews = append(summary.CriticReviews, domain.CriticReview{
			Source:   cr.Source,
			Score:    cr.Score,
			MaxScore: cr.MaxScore,
			Review:   cr.Review,
			Pros:     nonNil(cr.Pros),
			Cons:     nonNil(cr.Cons),
			Date:     cr.Date,
		})
	}
	for _, ur := range resp.UserReviews {
		summary.UserReviews = append(summary.UserReviews, MapUserReview(ur))
	}
	return summary
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
