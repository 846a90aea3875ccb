package pager

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int
	Name string
}

func itemID(i item) int { return i.ID }

type call struct {
	filter string
	page   int
}

// fakeSource serves fixed pages per filter and records every call
type fakeSource struct {
	mu    sync.Mutex
	pages map[string][]Page[item]
	errs  map[call]error
	calls []call
}

func newFakeSource() *fakeSource {
	return &fakeSource{pages: map[string][]Page[item]{}, errs: map[call]error{}}
}

func (s *fakeSource) FetchPage(_ context.Context, filter string, page int) (Page[item], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := call{filter, page}
	s.calls = append(s.calls, c)
	if err := s.errs[c]; err != nil {
		return Page[item]{}, err
	}
	pages := s.pages[filter]
	if page < 1 || page > len(pages) {
		return Page[item]{Hint: domain.HintDone}, nil
	}
	return pages[page-1], nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newController(src Source[string, item]) *Controller[string, item, int] {
	return New[string, item, int](src, itemID)
}

func items(ids ...int) []item {
	out := make([]item, 0, len(ids))
	for _, id := range ids {
		out = append(out, item{ID: id, Name: fmt.Sprintf("item %d", id)})
	}
	return out
}

func ids(in []item) []int {
	out := make([]int, 0, len(in))
	for _, it := range in {
		out = append(out, it.ID)
	}
	return out
}

func TestResetReplacesAndLoadMoreAppends(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["rpg"] = []Page[item]{
		{Items: items(1, 2, 3), Total: 5, Hint: domain.HintMore},
		{Items: items(4, 5), Total: 5, Hint: domain.HintDone},
	}
	src.pages["indie"] = []Page[item]{
		{Items: items(10, 11), Total: 2, Hint: domain.HintDone},
	}
	c := newController(src)

	require.NoError(t, c.Refresh(t.Context(), "rpg"))
	assert.Equal(t, []int{1, 2, 3}, ids(c.Items()))
	assert.Equal(t, 2, c.Cursor())
	assert.Equal(t, 5, c.Total())
	assert.True(t, c.HasMore())
	assert.Equal(t, Idle, c.State())

	issued, err := c.More(t.Context())
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(c.Items()))
	assert.Equal(t, 3, c.Cursor())
	assert.False(t, c.HasMore())

	require.NoError(t, c.Refresh(t.Context(), "indie"))
	assert.Equal(t, []int{10, 11}, ids(c.Items()))
	assert.Equal(t, 2, c.Cursor())
	assert.Equal(t, "indie", c.Filter())
}

func TestOverlappingPagesKeepFirstSeen(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	first := items(1, 2, 3)
	second := items(3, 4, 2, 5)
	second[0].Name = "moved"
	src.pages["all"] = []Page[item]{
		{Items: first, Total: 7, Hint: domain.HintUnknown},
		{Items: second, Total: 7, Hint: domain.HintUnknown},
	}
	c := newController(src)

	require.NoError(t, c.Refresh(t.Context(), "all"))
	req, ok := c.LoadMore()
	require.True(t, ok)
	out := c.Commit(c.Fetch(t.Context(), req))

	assert.True(t, out.Applied)
	assert.Equal(t, 2, out.Added)
	got := c.Items()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(got))
	assert.Equal(t, "item 3", got[2].Name)
	// 5 accumulated of 7 total, so more remain
	assert.True(t, c.HasMore())
}

func TestDuplicatesWithinFirstPage(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["x"] = []Page[item]{{Items: items(1, 1, 2), Total: 2, Hint: domain.HintDone}}
	c := newController(src)

	require.NoError(t, c.Refresh(t.Context(), "x"))
	assert.Equal(t, []int{1, 2}, ids(c.Items()))
}

func TestNoDuplicatesUnderRandomOverlap(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 50; round++ {
		src := newFakeSource()
		var pages []Page[item]
		for p := 0; p < 6; p++ {
			var pageIDs []int
			for range 5 {
				pageIDs = append(pageIDs, rng.IntN(25))
			}
			pages = append(pages, Page[item]{Items: items(pageIDs...), Total: 100, Hint: domain.HintMore})
		}
		src.pages["f"] = pages
		c := newController(src)

		require.NoError(t, c.Refresh(t.Context(), "f"))
		for {
			issued, err := c.More(t.Context())
			require.NoError(t, err)
			if !issued {
				break
			}
		}

		seen := map[int]bool{}
		for _, id := range ids(c.Items()) {
			require.False(t, seen[id], "round %d: duplicate id %d", round, id)
			seen[id] = true
		}
	}
}

func TestStaleResetIsDiscarded(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["f1"] = []Page[item]{{Items: items(1, 2), Total: 2, Hint: domain.HintDone}}
	src.pages["f2"] = []Page[item]{{Items: items(7, 8, 9), Total: 9, Hint: domain.HintMore}}
	c := newController(src)

	req1 := c.Reset("f1")
	req2 := c.Reset("f2")

	// f2 answers first, then the slow f1 response arrives
	out2 := c.Commit(c.Fetch(t.Context(), req2))
	out1 := c.Commit(c.Fetch(t.Context(), req1))

	assert.True(t, out2.Applied)
	assert.False(t, out1.Applied)
	assert.Equal(t, []int{7, 8, 9}, ids(c.Items()))
	assert.Equal(t, "f2", c.Filter())
	assert.True(t, c.HasMore())
	assert.Equal(t, Idle, c.State())
}

func TestResetDuringAppendDropsAppend(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["a"] = []Page[item]{
		{Items: items(1), Total: 3, Hint: domain.HintMore},
		{Items: items(2), Total: 3, Hint: domain.HintMore},
	}
	src.pages["b"] = []Page[item]{{Items: items(5), Total: 1, Hint: domain.HintDone}}
	c := newController(src)
	require.NoError(t, c.Refresh(t.Context(), "a"))

	more, ok := c.LoadMore()
	require.True(t, ok)
	reset := c.Reset("b")
	assert.Equal(t, RefreshLoading, c.State())

	assert.False(t, c.Commit(c.Fetch(t.Context(), more)).Applied)
	assert.True(t, c.Commit(c.Fetch(t.Context(), reset)).Applied)
	assert.Equal(t, []int{5}, ids(c.Items()))
}

func TestLoadMoreIsReentrancySafe(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["f"] = []Page[item]{
		{Items: items(1, 2), Total: 4, Hint: domain.HintMore},
		{Items: items(3, 4), Total: 4, Hint: domain.HintDone},
	}
	c := newController(src)
	require.NoError(t, c.Refresh(t.Context(), "f"))
	before := src.callCount()

	req, ok := c.LoadMore()
	require.True(t, ok)
	assert.Equal(t, AppendLoading, c.State())
	assert.True(t, c.Busy())

	_, again := c.LoadMore()
	assert.False(t, again)
	issued, err := c.More(t.Context())
	assert.False(t, issued)
	assert.NoError(t, err)

	c.Commit(c.Fetch(t.Context(), req))
	assert.Equal(t, before+1, src.callCount())
	assert.Equal(t, []int{1, 2, 3, 4}, ids(c.Items()))
}

func TestLoadMoreBeforeResetDoesNothing(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	c := newController(src)

	_, ok := c.LoadMore()
	assert.False(t, ok)
	assert.Zero(t, src.callCount())
}

func TestHasMoreTermination(t *testing.T) {
	t.Parallel()

	t.Run("server says done", func(t *testing.T) {
		t.Parallel()
		src := newFakeSource()
		src.pages["mario"] = []Page[item]{{Items: items(1), Total: 1, Hint: domain.HintDone}}
		c := newController(src)

		require.NoError(t, c.Refresh(t.Context(), "mario"))
		assert.Equal(t, []int{1}, ids(c.Items()))
		assert.False(t, c.HasMore())

		for range 3 {
			issued, err := c.More(t.Context())
			assert.False(t, issued)
			assert.NoError(t, err)
		}
		assert.Equal(t, 1, src.callCount())
		assert.Equal(t, Idle, c.State())
	})

	t.Run("computed from total", func(t *testing.T) {
		t.Parallel()
		src := newFakeSource()
		src.pages["f"] = []Page[item]{
			{Items: items(1, 2), Total: 3},
			{Items: items(3), Total: 3},
		}
		c := newController(src)

		require.NoError(t, c.Refresh(t.Context(), "f"))
		assert.True(t, c.HasMore())
		_, err := c.More(t.Context())
		require.NoError(t, err)
		assert.False(t, c.HasMore())
	})

	t.Run("empty page ends pagination", func(t *testing.T) {
		t.Parallel()
		src := newFakeSource()
		src.pages["f"] = []Page[item]{
			{Items: items(1), Total: 50, Hint: domain.HintMore},
			{Items: nil, Total: 50, Hint: domain.HintMore},
		}
		c := newController(src)

		require.NoError(t, c.Refresh(t.Context(), "f"))
		_, err := c.More(t.Context())
		require.NoError(t, err)
		assert.False(t, c.HasMore())
		issued, _ := c.More(t.Context())
		assert.False(t, issued)
	})
}

func TestFailedResetKeepsItems(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["ok"] = []Page[item]{{Items: items(1, 2), Total: 4, Hint: domain.HintMore}}
	boom := errors.New("connection refused")
	src.errs[call{"broken", 1}] = boom
	c := newController(src)
	require.NoError(t, c.Refresh(t.Context(), "ok"))

	err := c.Refresh(t.Context(), "broken")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, ids(c.Items()))
	assert.Equal(t, Idle, c.State())
	assert.ErrorIs(t, c.Err(), boom)

	// nothing to append to until a reset succeeds
	_, ok := c.LoadMore()
	assert.False(t, ok)

	require.NoError(t, c.Refresh(t.Context(), "ok"))
	assert.NoError(t, c.Err())
}

func TestFailedAppendKeepsHasMore(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["f"] = []Page[item]{
		{Items: items(1), Total: 2, Hint: domain.HintMore},
		{Items: items(2), Total: 2, Hint: domain.HintDone},
	}
	boom := errors.New("timeout")
	src.errs[call{"f", 2}] = boom
	c := newController(src)
	require.NoError(t, c.Refresh(t.Context(), "f"))

	issued, err := c.More(t.Context())
	assert.True(t, issued)
	require.ErrorIs(t, err, boom)
	assert.True(t, c.HasMore())
	assert.Equal(t, 2, c.Cursor())
	assert.Equal(t, Idle, c.State())

	// retry succeeds once the error clears
	delete(src.errs, call{"f", 2})
	_, err = c.More(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids(c.Items()))
	assert.NoError(t, c.Err())
}

func TestAbandonDropsInFlight(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["f"] = []Page[item]{{Items: items(1), Total: 1, Hint: domain.HintDone}}
	c := newController(src)

	req := c.Reset("f")
	c.Abandon()
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Commit(c.Fetch(t.Context(), req)).Applied)
	assert.Empty(t, c.Items())
}

func TestItemsReturnsCopy(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.pages["f"] = []Page[item]{{Items: items(1), Total: 1, Hint: domain.HintDone}}
	c := newController(src)
	require.NoError(t, c.Refresh(t.Context(), "f"))

	got := c.Items()
	got[0].ID = 99
	assert.Equal(t, []int{1}, ids(c.Items()))
}

func TestSourceFunc(t *testing.T) {
	t.Parallel()
	src := SourceFunc[int, item](func(_ context.Context, filter, page int) (Page[item], error) {
		return Page[item]{Items: items(filter*10 + page), Total: 1, Hint: domain.HintDone}, nil
	})
	c := New[int, item, int](src, itemID)
	require.NoError(t, c.Refresh(context.Background(), 4))
	assert.Equal(t, []int{41}, ids(c.Items()))
}
