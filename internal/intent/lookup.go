package intent

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/migcruzz/Ipma-Expert/internal/models"
	"github.com/migcruzz/Ipma-Expert/internal/observability"
)

// FuzzyThreshold is the minimum similarity for a fuzzy location match.
// Below it the lookup reports "none found" rather than guessing.
const FuzzyThreshold = 0.6

// LookupLocation resolves a free-text mention against the directory.
//
// Pass 1 tests each candidate name for case-insensitive containment in the
// full input text. When several names are contained (e.g. "Viana do Castelo"
// also contains "Castelo"), the longest name wins; ties break on directory
// order. Pass 2 compares the entire input text against every candidate name
// with a bigram similarity ratio and keeps the single best match at or above
// FuzzyThreshold.
//
// A false second return value is an expected outcome, not a fault.
func LookupLocation(text string, candidates []models.Location) (models.Location, bool) {
	lower := strings.ToLower(text)

	byLength := make([]int, len(candidates))
	for i := range byLength {
		byLength[i] = i
	}
	sort.SliceStable(byLength, func(a, b int) bool {
		return len(candidates[byLength[a]].Name) > len(candidates[byLength[b]].Name)
	})

	for _, i := range byLength {
		if strings.Contains(lower, strings.ToLower(candidates[i].Name)) {
			observability.LocationLookupsTotal.WithLabelValues("exact").Inc()
			return candidates[i], true
		}
	}

	dice := metrics.NewSorensenDice()
	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		score := strutil.Similarity(lower, strings.ToLower(c.Name), dice)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best >= 0 && bestScore >= FuzzyThreshold {
		observability.LocationLookupsTotal.WithLabelValues("fuzzy").Inc()
		return candidates[best], true
	}

	observability.LocationLookupsTotal.WithLabelValues("none").Inc()
	return models.Location{}, false
}
