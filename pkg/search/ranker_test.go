package search_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gamebase54/gamebot/pkg/search"
)

func ident(s string) string { return s }

func TestRank_ExcludesUnrelatedTitles(t *testing.T) {
	r := search.NewRanker(ident)
	got := r.Rank("mario", []string{"Super Mario Bros", "Contra", "Mario Kart"})
	assert.Equal(t, []string{"Mario Kart", "Super Mario Bros"}, got)
}

func TestRank_CaseAndDiacriticsFold(t *testing.T) {
	r := search.NewRanker(ident)
	got := r.Rank("pokemon", []string{"Pokémon Red", "Tetris"})
	assert.Equal(t, []string{"Pokémon Red"}, got)
}

func TestRank_BlankQueryMatchesNothing(t *testing.T) {
	r := search.NewRanker(ident)
	assert.Empty(t, r.Rank("   ", []string{"Super Mario Bros"}))
	assert.Empty(t, r.Rank("", []string{"Super Mario Bros"}))
}

func TestRank_LimitCapsResults(t *testing.T) {
	items := make([]string, 10)
	for i := range items {
		items[i] = fmt.Sprintf("Zelda %d", i)
	}

	r := search.NewRanker(ident)
	assert.Len(t, r.Rank("zelda", items), search.DefaultLimit)

	r = search.NewRanker(ident, search.WithLimit[string](2))
	assert.Len(t, r.Rank("zelda", items), 2)
}

func TestRank_BestMatchFirst(t *testing.T) {
	r := search.NewRanker(ident)
	got := r.Rank("doom", []string{"Doom II: Hell on Earth", "Doom"})
	assert.Equal(t, "Doom", got[0])
}

func TestRank_DistanceCutoff(t *testing.T) {
	r := search.NewRanker(ident, search.WithMaxDistance[string](3))
	got := r.Rank("doom", []string{"Doom", "Doom II: Hell on Earth"})
	assert.Equal(t, []string{"Doom"}, got)
}
