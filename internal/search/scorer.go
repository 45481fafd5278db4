package search

import (
	"math"
	"path"
	"strings"

	"centrefind/internal/config"
)

// Weights are the ranking knobs. They are plain multipliers and
// bonuses, tunable per config without touching scoring code.
type Weights struct {
	// FullCoverageBonus rewards multi-term queries where every term
	// is present; MissingTermPenalty is charged per absent term.
	FullCoverageBonus  float64
	MissingTermPenalty float64

	// SingleTermBonus rewards containment for one-term queries.
	SingleTermBonus float64

	// PerTermBonus is added for each contained term.
	PerTermBonus float64

	// BestRatioWeight and AvgRatioWeight blend fuzzy similarity
	// percentages into the score.
	BestRatioWeight float64
	AvgRatioWeight  float64

	// SegmentThreshold is the similarity ratio at which a path
	// segment counts as containing a term.
	SegmentThreshold float64
}

// DefaultWeights returns the stock ranking weights.
func DefaultWeights() Weights {
	return Weights{
		FullCoverageBonus:  140,
		MissingTermPenalty: 90,
		SingleTermBonus:    40,
		PerTermBonus:       15,
		BestRatioWeight:    0.4,
		AvgRatioWeight:     0.2,
		SegmentThreshold:   0.70,
	}
}

// WeightsFromConfig lifts the scoring knobs out of a search config.
func WeightsFromConfig(sc config.SearchConfig) Weights {
	return Weights{
		FullCoverageBonus:  sc.FullCoverageBonus,
		MissingTermPenalty: sc.MissingTermPenalty,
		SingleTermBonus:    sc.SingleTermBonus,
		PerTermBonus:       sc.PerTermBonus,
		BestRatioWeight:    sc.BestRatioWeight,
		AvgRatioWeight:     sc.AvgRatioWeight,
		SegmentThreshold:   sc.SegmentThreshold,
	}
}

// Result is one ranked hit.
type Result struct {
	Path  string `json:"path"`
	Score int    `json:"score"`
}

type scorer struct {
	weights Weights
}

// score ranks one candidate path against the query. Core terms drive
// coverage scoring; the expanded set (synonyms included) drives the
// fuzzy component against both the basename and the full path.
func (sc *scorer) score(p string, core, expanded []string) int {
	plow := strings.ToLower(p)
	basename := strings.ToLower(path.Base(p))
	segments := PathSegments(plow)

	contained := 0
	for _, t := range core {
		if sc.contains(plow, segments, t) {
			contained++
		}
	}

	var score float64
	if len(core) > 1 {
		if contained >= len(core) {
			score += sc.weights.FullCoverageBonus
		} else {
			score -= float64(len(core)-contained) * sc.weights.MissingTermPenalty
		}
	} else if contained >= len(core) {
		score += sc.weights.SingleTermBonus
	}

	score += sc.weights.PerTermBonus * float64(contained)

	var best, sum float64
	for _, t := range expanded {
		r := math.Max(Ratio(t, basename), Ratio(t, plow)) * 100.0
		if r > best {
			best = r
		}
		sum += r
	}
	if len(expanded) > 0 {
		score += sc.weights.BestRatioWeight*best +
			sc.weights.AvgRatioWeight*(sum/float64(len(expanded)))
	}

	return int(math.Round(score))
}

// contains reports whether the path holds the term, either as a
// direct substring or as a segment similar beyond the threshold.
func (sc *scorer) contains(plow string, segments []string, term string) bool {
	if strings.Contains(plow, term) {
		return true
	}
	for _, seg := range segments {
		if Ratio(term, seg) >= sc.weights.SegmentThreshold {
			return true
		}
	}
	return false
}
