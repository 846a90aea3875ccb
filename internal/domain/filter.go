package domain

// Ordering is the server sort token for the games list.
// A leading "-" means descending.
type Ordering string

const (
	OrderAdded       Ordering = "-added"
	OrderRating      Ordering = "-rating"
	OrderNewest      Ordering = "-released"
	OrderOldest      Ordering = "released"
	OrderNameAsc     Ordering = "name"
	OrderNameDesc    Ordering = "-name"
	DefaultOrdering           = OrderAdded
)

const (
	DefaultPageSize   = 20
	QuickSearchSize   = 8 // home screen dropdown
	QuickSearchMinLen = 2
)

// Orderings lists the supported orderings in display order
func Orderings() []Ordering {
	return []Ordering{OrderAdded, OrderRating, OrderNewest, OrderOldest, OrderNameAsc, OrderNameDesc}
}

// String returns the display name for the ordering
func (o Ordering) String() string {
	switch o {
	case OrderAdded:
		return "Recently Added"
	case OrderRating:
		return "Top Rated"
	case OrderNewest:
		return "Newest"
	case OrderOldest:
		return "Oldest"
	case OrderNameAsc:
		return "Name A-Z"
	case OrderNameDesc:
		return "Name Z-A"
	default:
		return string(o)
	}
}

// Valid reports whether o is one of the known orderings
func (o Ordering) Valid() bool {
	for _, known := range Orderings() {
		if o == known {
			return true
		}
	}
	return false
}

// Next returns the ordering after o, wrapping around
func (o Ordering) Next() Ordering {
	all := Orderings()
	for i, known := range all {
		if known == o {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Filter is one logical result collection for the games list.
// It is a value: every change produces a new Filter and a new fetch cycle.
type Filter struct {
	Genre    string
	Platform string
	Search   string
	Ordering Ordering
}

// DefaultFilter returns the filter used when the games screen opens
func DefaultFilter() Filter {
	return Filter{Ordering: DefaultOrdering}
}

// IsZero reports whether no genre, platform or search constraint is set
func (f Filter) IsZero() bool {
	return f.Genre == "" && f.Platform == "" && f.Search == ""
}

// WithSearch returns a copy of f with the search text replaced
func (f Filter) WithSearch(search string) Filter {
	f.Search = search
	return f
}

// WithGenre returns a copy of f with the genre replaced
func (f Filter) WithGenre(genre string) Filter {
	f.Genre = genre
	return f
}

// WithPlatform returns a copy of f with the platform replaced
func (f Filter) WithPlatform(platform string) Filter {
	f.Platform = platform
	return f
}

// WithOrdering returns a copy of f with the ordering replaced
func (f Filter) WithOrdering(o Ordering) Filter {
	f.Ordering = o
	return f
}

// GameQuery is a single games list request
type GameQuery struct {
	Filter
	Page     int
	PageSize int
}

// PageHint is what the server said about further pages
type PageHint int

const (
	HintUnknown PageHint = iota // derive from total
	HintMore                    // server reported a next page
	HintDone                    // server reported no next page
)

// GamePage is one normalized page of the games list
type GamePage struct {
	Games []Game
	Total int
	Hint  PageHint
}
