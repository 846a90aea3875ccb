package debounce

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timer is a scheduled ticket expiry on a simulated clock
type timer struct {
	at     time.Duration
	ticket Ticket
}

func TestCollapsesBurst(t *testing.T) {
	t.Parallel()
	c := New[string](300 * time.Millisecond)

	var timers []timer
	for _, change := range []struct {
		at    time.Duration
		value string
	}{
		{0, "m"},
		{100 * time.Millisecond, "ma"},
		{150 * time.Millisecond, "mario"},
	} {
		timers = append(timers, timer{at: change.at + c.Delay(), ticket: c.Schedule(change.value)})
	}
	sort.Slice(timers, func(i, j int) bool { return timers[i].at < timers[j].at })

	var fired []string
	for _, tm := range timers {
		if v, ok := c.Fire(tm.ticket); ok {
			fired = append(fired, v)
		}
	}

	assert.Equal(t, []string{"mario"}, fired)
	assert.False(t, c.Pending())
}

func TestSeparateWindowsEachFire(t *testing.T) {
	t.Parallel()
	c := New[int](300 * time.Millisecond)

	first := c.Schedule(1)
	v, ok := c.Fire(first)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	second := c.Schedule(2)
	v, ok = c.Fire(second)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = c.Fire(second)
	assert.False(t, ok, "a ticket fires at most once")
}

func TestCancel(t *testing.T) {
	t.Parallel()
	c := New[string](time.Second)

	ticket := c.Schedule("zelda")
	assert.True(t, c.Pending())
	c.Cancel()
	assert.False(t, c.Pending())

	_, ok := c.Fire(ticket)
	assert.False(t, ok)
}

func TestCoordinatorsAreIndependent(t *testing.T) {
	t.Parallel()
	home := New[string](300 * time.Millisecond)
	games := New[string](500 * time.Millisecond)

	h := home.Schedule("halo")
	g := games.Schedule("doom")

	v, ok := home.Fire(h)
	require.True(t, ok)
	assert.Equal(t, "halo", v)
	v, ok = games.Fire(g)
	require.True(t, ok)
	assert.Equal(t, "doom", v)
}

func TestAfterFunc(t *testing.T) {
	t.Parallel()
	c := New[string](20 * time.Millisecond)

	var (
		mu    sync.Mutex
		calls []string
	)
	done := make(chan struct{})
	record := func(v string) {
		mu.Lock()
		calls = append(calls, v)
		mu.Unlock()
		close(done)
	}

	c.AfterFunc("a", record)
	c.AfterFunc("ab", record)
	c.AfterFunc("abc", record)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}
	// let any superseded timers expire
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"abc"}, calls)
}
