package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
	"github.com/urfave/cli/v3"
)

func gamesCommand() *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "List games",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Match games by name",
			},
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Only games in this genre",
			},
			&cli.StringFlag{
				Name:  "platform",
				Usage: "Only games on this platform",
			},
			&cli.StringFlag{
				Name:    "ordering",
				Aliases: []string{"o"},
				Usage:   "Sort order: -added, -rating, -released, released, name, -name",
			},
			&cli.IntFlag{
				Name:    "pages",
				Aliases: []string{"n"},
				Usage:   "Number of pages to load",
				Value:   1,
			},
		},
		Action: withApp(func(ctx context.Context, c *cli.Command, a *app) error {
			f := a.defaultFilter().
				WithSearch(c.String("search")).
				WithGenre(c.String("genre")).
				WithPlatform(c.String("platform"))
			if o := c.String("ordering"); o != "" {
				if !domain.Ordering(o).Valid() {
					return fmt.Errorf("unknown ordering %q", o)
				}
				f = f.WithOrdering(domain.Ordering(o))
			}
			return printGames(ctx, os.Stdout, a.svc, f, max(int(c.Int("pages")), 1))
		}),
	}
}

// printGames loads up to pages pages for f through a list controller
// and prints them as a table
func printGames(ctx context.Context, w io.Writer, svc *browse.Service, f domain.Filter, pages int) error {
	ctrl := svc.NewGamesController()
	if err := ctrl.Refresh(ctx, f); err != nil {
		return fmt.Errorf("failed to load games: %w", err)
	}
	for range pages - 1 {
		issued, err := ctrl.More(ctx)
		if err != nil {
			return fmt.Errorf("failed to load more games: %w", err)
		}
		if !issued {
			break
		}
	}

	games := ctrl.Items()
	if len(games) == 0 {
		fmt.Fprintln(w, "No games found")
		return nil
	}

	rows := make([][]string, len(games))
	for i, g := range games {
		year := ""
		if y := g.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		rows[i] = []string{strconv.Itoa(g.ID), g.Name, year, g.Stars(), g.PlatformLine()}
	}
	fmt.Fprintln(w, newTable("ID", "Name", "Year", "Rating", "Platforms").Rows(rows...).Render())

	summary := fmt.Sprintf("%d of %d games", len(games), ctrl.Total())
	if ctrl.HasMore() {
		summary += ", more with --pages"
	}
	fmt.Fprintln(w, styles.DimStyle.Render(summary))
	return nil
}

func gameCommand() *cli.Command {
	return &cli.Command{
		Name:      "game",
		Usage:     "Show a game with its reviews",
		ArgsUsage: "<id>",
		Action: withApp(func(ctx context.Context, c *cli.Command, a *app) error {
			id, err := gameIDArg(c)
			if err != nil {
				return err
			}
			data, err := a.svc.Detail(ctx, id)
			if err != nil {
				return err
			}
			printDetail(os.Stdout, data)
			return nil
		}),
	}
}

func printDetail(w io.Writer, data *browse.DetailData) {
	g := data.Game
	fmt.Fprintln(w, styles.TitleStyle.Render(g.Name))
	fmt.Fprintf(w, "%s %.1f", g.Stars(), g.Rating)
	if g.Metacritic > 0 {
		fmt.Fprintf(w, "  MC %d", g.Metacritic)
	}
	fmt.Fprintln(w)

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-11s%s\n", name, value)
		}
	}
	field("Released", g.Released)
	field("Genres", g.GenreLine())
	field("Platforms", strings.Join(g.Platforms, ", "))
	field("Developers", strings.Join(g.Developers, ", "))
	field("Publishers", strings.Join(g.Publishers, ", "))
	field("Playtime", g.FormattedPlaytime())
	field("ESRB", g.ESRBRating)

	if g.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.NewStyle().Width(80).Render(g.Description))
	}

	if data.ReviewsErr != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.DimStyle.Render("Reviews are unavailable"))
		return
	}
	if data.Reviews == nil {
		return
	}
	for _, r := range data.Reviews.CriticReviews {
		fmt.Fprintf(w, "\n%s  %g/%g\n", r.Source, r.Score, r.MaxScore)
		if r.Review != "" {
			fmt.Fprintln(w, lipgloss.NewStyle().Width(80).Render(r.Review))
		}
	}
	if rating := data.Reviews.UserRating; rating.Total > 0 {
		fmt.Fprintf(w, "\nUser rating %.1f from %d reviews\n", rating.Average, rating.Total)
	}
	for _, r := range data.Reviews.UserReviews {
		fmt.Fprintf(w, "\n%s  %s  %s\n%s\n", r.Username, domain.Stars(float64(r.Rating)), r.Date, r.Review)
	}
}

func newsCommand() *cli.Command {
	return &cli.Command{
		Name:  "news",
		Usage: "List gaming and console news",
		Action: withApp(func(ctx context.Context, c *cli.Command, a *app) error {
			news, err := a.client.GetNews(ctx)
			if err != nil {
				return fmt.Errorf("failed to load news: %w", err)
			}
			consoles, err := a.client.GetConsoleNews(ctx)
			if err != nil {
				a.logger.Warn("console news unavailable", "error", err)
			}
			articles := append(news, consoles...)
			slices.SortStableFunc(articles, func(x, y domain.Article) int {
				return cmp.Compare(y.PublishedAt.Unix(), x.PublishedAt.Unix())
			})

			rows := make([][]string, len(articles))
			for i, art := range articles {
				date := ""
				if !art.PublishedAt.IsZero() {
					date = art.PublishedAt.Format("2006-01-02")
				}
				rows[i] = []string{date, art.Source, art.Title, art.URL}
			}
			fmt.Println(newTable("Date", "Source", "Title", "Link").Rows(rows...).Render())
			return nil
		}),
	}
}

func genresCommand() *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "List genre names accepted by --genre",
		Action: withApp(func(ctx context.Context, c *cli.Command, a *app) error {
			genres, err := a.client.ListGenres(ctx)
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(genres, "\n"))
			return nil
		}),
	}
}

func platformsCommand() *cli.Command {
	return &cli.Command{
		Name:  "platforms",
		Usage: "List platform names accepted by --platform",
		Action: withApp(func(ctx context.Context, c *cli.Command, a *app) error {
			platforms, err := a.client.ListPlatforms(ctx)
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(platforms, "\n"))
			return nil
		}),
	}
}

func reviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "Post a review for a game",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Name shown with the review",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "rating",
				Aliases:  []string{"r"},
				Usage:    "Rating from 1 to 5",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "text",
				Aliases:  []string{"t"},
				Usage:    "Review text",
				Required: true,
			},
		},
		Action: withApp(func(ctx context.Context, c *cli.Command, a *app) error {
			id, err := gameIDArg(c)
			if err != nil {
				return err
			}
			in := domain.ReviewInput{
				Username: c.String("username"),
				Rating:   int(c.Int("rating")),
				Review:   c.String("text"),
			}
			if err := in.Validate(); err != nil {
				return err
			}
			review, err := a.svc.SubmitReview(ctx, id, in)
			if err != nil {
				return fmt.Errorf("failed to post review: %w", err)
			}
			fmt.Printf("✓ Posted review %d for game %d\n", review.ID, id)
			return nil
		}),
	}
}

func gameIDArg(c *cli.Command) (int, error) {
	if c.Args().Len() != 1 {
		return 0, fmt.Errorf("expected one game id")
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid game id %q", c.Args().First())
	}
	return id, nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.DimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.AccentStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}
