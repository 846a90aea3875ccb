package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTarget struct {
	busy    bool
	hasMore bool
	loads   int
}

func (f *fakeTarget) Busy() bool    { return f.busy }
func (f *fakeTarget) HasMore() bool { return f.hasMore }
func (f *fakeTarget) LoadMore()     { f.loads++ }

func TestViewportFiresOnCrossing(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	v.SetRange(0, 9)

	fired := 0
	v.Observe(19, func() { fired++ })
	assert.Zero(t, fired)

	v.SetRange(5, 14)
	assert.Zero(t, fired)
	v.SetRange(10, 19)
	assert.Equal(t, 1, fired)

	// still visible: no new crossing
	v.SetRange(11, 20)
	assert.Equal(t, 1, fired)

	v.SetRange(0, 9)
	v.SetRange(12, 21)
	assert.Equal(t, 2, fired)
}

func TestViewportFiresImmediatelyWhenVisible(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	v.SetRange(0, 30)

	fired := 0
	v.Observe(7, func() { fired++ })
	assert.Equal(t, 1, fired)

	// same sentinel again keeps state
	v.Observe(7, func() { fired++ })
	assert.Equal(t, 1, fired)
}

func TestViewportDisconnect(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	fired := 0
	v.Observe(3, func() { fired++ })
	v.Disconnect()
	assert.False(t, v.Observing())

	v.SetRange(0, 10)
	assert.Zero(t, fired)
}

func TestLoaderGuards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		busy      bool
		hasMore   bool
		wantLoads int
	}{
		{"idle with more", false, true, 1},
		{"busy", true, true, 0},
		{"no more pages", false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := NewViewport()
			target := &fakeTarget{busy: tt.busy, hasMore: tt.hasMore}
			l := NewLoader(v, target)

			l.Attach(19)
			v.SetRange(10, 19)
			assert.Equal(t, tt.wantLoads, target.loads)
		})
	}
}

func TestLoaderFollowsLastRow(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	target := &fakeTarget{hasMore: true}
	l := NewLoader(v, target)

	l.Attach(19)
	v.SetRange(10, 19)
	assert.Equal(t, 1, target.loads)

	// the page arrived; the new last row is off screen
	l.Attach(39)
	assert.Equal(t, 1, target.loads)
	v.SetRange(30, 39)
	assert.Equal(t, 2, target.loads)

	// a short page leaves the new last row visible, which loads again
	l.Attach(35)
	assert.Equal(t, 3, target.loads)
}

func TestLoaderEmptyListAndClose(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	target := &fakeTarget{hasMore: true}
	l := NewLoader(v, target)

	l.Attach(-1)
	assert.False(t, v.Observing())

	l.Attach(4)
	l.Close()
	v.SetRange(0, 10)
	assert.Zero(t, target.loads)
}
