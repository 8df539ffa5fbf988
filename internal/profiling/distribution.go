package profiling

import (
	"fmt"
	"sort"

	"datalens/domain/dataset"
)

// histogram builds equal-width bins over [minVal, maxVal]. Bins are
// half-open [lo, hi) except the last, which is closed so maxVal lands in it.
// The bin count is capped by the number of distinct values so sparse columns
// do not produce rows of empty bins.
func histogram(values []float64, minVal, maxVal float64, maxBins int) []dataset.DistributionBucket {
	if len(values) == 0 {
		return []dataset.DistributionBucket{}
	}

	if minVal == maxVal {
		// Degenerate span: one bucket holding everything, no zero-width bins.
		return []dataset.DistributionBucket{{
			Kind:  dataset.BucketRange,
			Label: formatBound(minVal),
			Count: len(values),
		}}
	}

	distinct := make(map[float64]struct{}, len(values))
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	bins := maxBins
	if len(distinct) < bins {
		bins = len(distinct)
	}

	width := (maxVal - minVal) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		idx := int((v - minVal) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	buckets := make([]dataset.DistributionBucket, bins)
	for i := 0; i < bins; i++ {
		lo := minVal + float64(i)*width
		hi := minVal + float64(i+1)*width
		buckets[i] = dataset.DistributionBucket{
			Kind:  dataset.BucketRange,
			Label: fmt.Sprintf("%s-%s", formatBound(lo), formatBound(hi)),
			Count: counts[i],
		}
	}
	return buckets
}

func formatBound(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// topCategories emits the topN most frequent values as individual buckets,
// ordered by frequency descending with first-occurrence order breaking ties.
// Overflow values are not dropped: they aggregate into a trailing "Other"
// bucket so the distribution total still equals the column count.
func topCategories(counts map[string]int, order []string, topN int) []dataset.DistributionBucket {
	if len(counts) == 0 {
		return []dataset.DistributionBucket{}
	}

	firstSeen := make(map[string]int, len(order))
	for i, v := range order {
		firstSeen[v] = i
	}

	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})

	n := topN
	if len(ranked) < n {
		n = len(ranked)
	}

	buckets := make([]dataset.DistributionBucket, 0, n+1)
	for _, v := range ranked[:n] {
		buckets = append(buckets, dataset.DistributionBucket{
			Kind:  dataset.BucketCategory,
			Label: v,
			Count: counts[v],
		})
	}

	if len(ranked) > n {
		other := 0
		for _, v := range ranked[n:] {
			other += counts[v]
		}
		buckets = append(buckets, dataset.DistributionBucket{
			Kind:  dataset.BucketCategory,
			Label: "Other",
			Count: other,
		})
	}
	return buckets
}
