package chunker

import (
	"fmt"
	"sort"
	"strings"
)

// mergeSplits packs consecutive fragments into groups whose cumulative token
// count stays within chunkSize. It builds a cumulative-sum sequence over the
// counts (adding one token per fragment in whitespace mode to model the join
// separator) and binary-searches it for each group's furthest boundary, so
// packing is near-linear with a logarithmic search per group.
//
// Every group takes at least one fragment even if that fragment alone exceeds
// the budget; the caller recurses into such groups. If all fragments are
// individually over budget no merge can help, and the inputs are returned
// unchanged.
func mergeSplits(splits []string, tokenCounts []int, chunkSize int, combineWhitespace bool) ([]string, []int, error) {
	if len(splits) == 0 || len(tokenCounts) == 0 {
		return nil, nil, nil
	}
	if len(splits) != len(tokenCounts) {
		return nil, nil, fmt.Errorf("%w: %d fragments but %d token counts",
			ErrInconsistentCounts, len(splits), len(tokenCounts))
	}

	allOverBudget := true
	for _, count := range tokenCounts {
		if count <= chunkSize {
			allOverBudget = false
			break
		}
	}
	if allOverBudget {
		return splits, tokenCounts, nil
	}

	cumulative := make([]int, len(tokenCounts)+1)
	for i, count := range tokenCounts {
		cumulative[i+1] = cumulative[i] + count
		if combineWhitespace {
			cumulative[i+1]++
		}
	}

	var merged []string
	var mergedCounts []int
	current := 0
	for current < len(splits) {
		required := cumulative[current] + chunkSize

		// Furthest boundary whose cumulative count does not exceed the budget.
		index := sort.Search(len(cumulative), func(i int) bool {
			return cumulative[i] > required
		}) - 1
		if index == current {
			index++
		}

		if combineWhitespace {
			merged = append(merged, strings.Join(splits[current:index], " "))
		} else {
			merged = append(merged, strings.Join(splits[current:index], ""))
		}
		mergedCounts = append(mergedCounts, cumulative[index]-cumulative[current])
		current = index
	}

	return merged, mergedCounts, nil
}
