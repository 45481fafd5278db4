package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestScorer() *scorer {
	return &scorer{weights: DefaultWeights()}
}

func TestScoreFullCoverageBeatsPartial(t *testing.T) {
	sc := newTestScorer()
	core := []string{"server", "world"}
	expanded := NewExpander(nil).Expand(core)

	full := sc.score("/srv/minecraft/server1/world", core, expanded)
	partial := sc.score("/srv/minecraft/server2/logs", core, expanded)

	assert.Greater(t, full, partial)
	// Missing a term on a multi-term query drags the score down hard.
	assert.Greater(t, full-partial, 100)
}

func TestScoreSingleTermContainment(t *testing.T) {
	sc := newTestScorer()
	core := []string{"notes"}
	expanded := []string{"notes"}

	hit := sc.score("/home/user/documents/notes.txt", core, expanded)
	miss := sc.score("/var/log/syslog", core, expanded)

	assert.Greater(t, hit, miss)
}

func TestScoreSegmentSimilarityCountsAsContainment(t *testing.T) {
	sc := newTestScorer()

	// "atluncher" is not a substring, but the "atlauncher" segment is
	// similar enough to count.
	typo := sc.score("/games/atlauncher/instances", []string{"atluncher"}, []string{"atluncher"})
	unrelated := sc.score("/games/doom/saves", []string{"atluncher"}, []string{"atluncher"})

	assert.Greater(t, typo, unrelated)
	assert.GreaterOrEqual(t, typo, 55) // containment bonuses applied
}

func TestScoreUsesExpandedTermsForFuzzyComponent(t *testing.T) {
	sc := newTestScorer()
	core := []string{"server"}

	// Synonym expansion lets "srv" contribute to the fuzzy component
	// even though the core term is absent.
	with := sc.score("/data/srv/config", core, []string{"server", "srv"})
	without := sc.score("/data/srv/config", core, []string{"server"})

	assert.Greater(t, with, without)
}
