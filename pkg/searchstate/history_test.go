package searchstate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/kvstore"
)

func TestPushHistory(t *testing.T) {
	tests := []struct {
		name string
		list []string
		q    string
		want []string
	}{
		{"empty", nil, "dune", []string{"dune"}},
		{"prepends", []string{"emma"}, "dune", []string{"dune", "emma"}},
		{"moves case-insensitive duplicate first", []string{"emma", "Dune", "ulysses"}, "dune", []string{"dune", "emma", "ulysses"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pushHistory(tt.list, tt.q))
		})
	}
}

func TestPushHistory_KeepsMostRecentTen(t *testing.T) {
	var list []string
	for i := 0; i < 15; i++ {
		list = pushHistory(list, fmt.Sprintf("q%d", i))
	}
	require.Len(t, list, MaxHistory)
	assert.Equal(t, "q14", list[0])
	assert.Equal(t, "q5", list[MaxHistory-1])
}

func TestLoadHistory(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	list, err := loadHistory(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.Set(ctx, HistoryKey, []byte("not json")))
	_, err = loadHistory(ctx, store)
	assert.Error(t, err)
}
