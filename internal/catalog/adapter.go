package catalog

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/mmcdole/gamedeck/internal/domain"
)

// ResponseAdapter maps a raw list envelope to a normalized page.
// Backends disagree on how they signal further pages; the adapter is where
// that difference lives.
type ResponseAdapter interface {
	Adapt(env *ListEnvelope) (domain.GamePage, error)
}

// AdapterFunc lets a plain function act as a ResponseAdapter
type AdapterFunc func(env *ListEnvelope) (domain.GamePage, error)

// Adapt implements ResponseAdapter
func (f AdapterFunc) Adapt(env *ListEnvelope) (domain.GamePage, error) {
	return f(env)
}

// Adapter names accepted by AdapterFor (config key browse.has_more_from)
const (
	AdapterAuto       = "auto"
	AdapterNext       = "next"
	AdapterPagination = "pagination"
	AdapterHasMore    = "has_more"
	AdapterTotal      = "total"
)

// AdapterFor returns the adapter registered under name
func AdapterFor(name string) (ResponseAdapter, error) {
	switch name {
	case "", AdapterAuto:
		return AutoAdapter(), nil
	case AdapterNext:
		return NextPointerAdapter(), nil
	case AdapterPagination:
		return PaginationAdapter(), nil
	case AdapterHasMore:
		return HasMoreAdapter(), nil
	case AdapterTotal:
		return TotalCountAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown response adapter: %q", name)
	}
}

// NextPointerAdapter reads the top-level "next" field (bool or URL)
func NextPointerAdapter() ResponseAdapter {
	return adapterWith(func(env *ListEnvelope) domain.PageHint {
		return hintFromBool(env.Next.Set, env.Next.More)
	})
}

// PaginationAdapter reads pagination.has_next
func PaginationAdapter() ResponseAdapter {
	return adapterWith(func(env *ListEnvelope) domain.PageHint {
		if env.Pagination == nil {
			return domain.HintUnknown
		}
		return hintFromBool(true, env.Pagination.HasNext)
	})
}

// HasMoreAdapter reads a top-level "hasMore" boolean
func HasMoreAdapter() ResponseAdapter {
	return adapterWith(func(env *ListEnvelope) domain.PageHint {
		if env.HasMore == nil {
			return domain.HintUnknown
		}
		return hintFromBool(true, *env.HasMore)
	})
}

// TotalCountAdapter ignores any pointer; the controller compares
// accumulated length to the total instead.
func TotalCountAdapter() ResponseAdapter {
	return adapterWith(func(*ListEnvelope) domain.PageHint {
		return domain.HintUnknown
	})
}

// AutoAdapter uses the first pointer the envelope carries:
// "next", then pagination.has_next, then "hasMore", then the total.
func AutoAdapter() ResponseAdapter {
	return adapterWith(func(env *ListEnvelope) domain.PageHint {
		switch {
		case env.Next.Set:
			return hintFromBool(true, env.Next.More)
		case env.Pagination != nil:
			return hintFromBool(true, env.Pagination.HasNext)
		case env.HasMore != nil:
			return hintFromBool(true, *env.HasMore)
		default:
			return domain.HintUnknown
		}
	})
}

func adapterWith(hint func(env *ListEnvelope) domain.PageHint) ResponseAdapter {
	return AdapterFunc(func(env *ListEnvelope) (domain.GamePage, error) {
		games, err := decodeGames(env)
		if err != nil {
			return domain.GamePage{}, err
		}
		return domain.GamePage{
			Games: games,
			Total: envelopeTotal(env, len(games)),
			Hint:  hint(env),
		}, nil
	})
}

func decodeGames(env *ListEnvelope) ([]domain.Game, error) {
	if len(env.Items) == 0 {
		return []domain.Game{}, nil
	}
	var dtos []GameDTO
	if err := sonic.Unmarshal(env.Items, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse games: %w", err)
	}
	return MapGames(dtos), nil
}

// envelopeTotal prefers the top-level total, then the pagination block.
// With neither, the page size is the only count known.
func envelopeTotal(env *ListEnvelope, pageLen int) int {
	if env.Total != nil {
		return *env.Total
	}
	if env.Pagination != nil {
		return env.Pagination.Total
	}
	return pageLen
}

func hintFromBool(set, more bool) domain.PageHint {
	if !set {
		return domain.HintUnknown
	}
	if more {
		return domain.HintMore
	}
	return domain.HintDone
}
