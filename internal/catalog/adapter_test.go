package catalog

import (
	"encoding/json"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, raw string) *ListEnvelope {
	t.Helper()
	var env ListEnvelope
	require.NoError(t, sonic.Unmarshal([]byte(raw), &env))
	var fields map[string]json.RawMessage
	require.NoError(t, sonic.Unmarshal([]byte(raw), &fields))
	env.Items = []byte(fields["games"])
	return &env
}

func TestAdapters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		adapter string
		body    string
		hint    domain.PageHint
		total   int
		count   int
	}{
		{"next true", AdapterNext, `{"status":"success","games":[{"id":1}],"total":9,"next":true}`, domain.HintMore, 9, 1},
		{"next url", AdapterNext, `{"status":"success","games":[{"id":1}],"next":"/games?page=2"}`, domain.HintMore, 1, 1},
		{"next empty url", AdapterNext, `{"status":"success","games":[{"id":1}],"next":""}`, domain.HintDone, 1, 1},
		{"next null", AdapterNext, `{"status":"success","games":[],"next":null}`, domain.HintUnknown, 0, 0},
		{"pagination", AdapterPagination, `{"status":"success","games":[{"id":1},{"id":2}],"pagination":{"total":40,"has_next":true}}`, domain.HintMore, 40, 2},
		{"pagination missing", AdapterPagination, `{"status":"success","games":[{"id":1}],"next":true}`, domain.HintUnknown, 1, 1},
		{"has more", AdapterHasMore, `{"status":"success","games":[{"id":1}],"hasMore":false,"total":1}`, domain.HintDone, 1, 1},
		{"total ignores next", AdapterTotal, `{"status":"success","games":[{"id":1}],"total":5,"next":false}`, domain.HintUnknown, 5, 1},
		{"auto prefers next", AdapterAuto, `{"status":"success","games":[{"id":1}],"next":false,"pagination":{"total":1,"has_next":true}}`, domain.HintDone, 1, 1},
		{"auto falls back to pagination", AdapterAuto, `{"status":"success","games":[{"id":1}],"pagination":{"total":3,"has_next":true}}`, domain.HintMore, 3, 1},
		{"auto falls back to hasMore", AdapterAuto, `{"status":"success","games":[{"id":1}],"hasMore":true}`, domain.HintMore, 1, 1},
		{"auto without pointer", AdapterAuto, `{"status":"success","games":[{"id":1}],"total":7}`, domain.HintUnknown, 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			adapter, err := AdapterFor(tt.adapter)
			require.NoError(t, err)

			page, err := adapter.Adapt(envelope(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.hint, page.Hint)
			assert.Equal(t, tt.total, page.Total)
			assert.Len(t, page.Games, tt.count)
		})
	}
}

func TestAdapterForUnknown(t *testing.T) {
	t.Parallel()
	_, err := AdapterFor("cursor")
	assert.ErrorContains(t, err, "unknown response adapter")
}

func TestAdapterRejectsBadItems(t *testing.T) {
	t.Parallel()
	env := &ListEnvelope{Items: []byte(`{"id":1}`)}
	_, err := AutoAdapter().Adapt(env)
	assert.ErrorContains(t, err, "failed to parse games")
}

func TestGameParams(t *testing.T) {
	t.Parallel()

	t.Run("defaults and empty filters", func(t *testing.T) {
		t.Parallel()
		got := GameParams(domain.GameQuery{Filter: domain.Filter{Search: "mario"}}).Encode()
		assert.Equal(t, "ordering=-added&page=1&page_size=20&search=mario", got)
	})

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()
		q := domain.GameQuery{
			Filter:   domain.Filter{Genre: "RPG", Platform: "PC", Search: "zelda", Ordering: domain.OrderRating},
			Page:     3,
			PageSize: 8,
		}
		values := GameParams(q).Values()
		assert.Equal(t, "RPG", values.Get("genres"))
		assert.Equal(t, "PC", values.Get("platforms"))
		assert.Equal(t, "zelda", values.Get("search"))
		assert.Equal(t, "-rating", values.Get("ordering"))
		assert.Equal(t, "3", values.Get("page"))
		assert.Equal(t, "8", values.Get("page_size"))
	})
}

func TestParamsSkipsEmptyValues(t *testing.T) {
	t.Parallel()
	var nilPtr *int
	n := 4
	p := Params{
		"a": nil,
		"b": "",
		"c": nilPtr,
		"d": &n,
		"e": true,
		"f": 1.5,
		"g": uint8(2),
		"h": []string{"x"},
	}
	assert.Equal(t, "d=4&e=true&f=1.5&g=2", p.Encode())
}
