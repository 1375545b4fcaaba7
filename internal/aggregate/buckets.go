package aggregate

// DistributionBucket is a labeled count feeding a bar or pie chart
type DistributionBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BucketBy counts items per key. Buckets come out in the order of labels (zero
// counts included); keys missing from labels follow in first-seen order.
func BucketBy[T any](items []T, key func(T) string, labels []string) []DistributionBucket {
	buckets := make([]DistributionBucket, 0, len(labels))
	index := make(map[string]int, len(labels))
	for _, label := range labels {
		if _, dup := index[label]; dup {
			continue
		}
		index[label] = len(buckets)
		buckets = append(buckets, DistributionBucket{Label: label})
	}

	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, DistributionBucket{Label: k})
		}
		buckets[i].Count++
	}
	return buckets
}

// NonZero drops empty buckets, keeping order
func NonZero(buckets []DistributionBucket) []DistributionBucket {
	out := make([]DistributionBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			out = append(out, b)
		}
	}
	return out
}

// RangeBucket is one histogram bin
type RangeBucket struct {
	Lower float64
	Upper float64
	Count int
}

// Histogram splits values into bins equal-width bins between their min and max.
// Every bin is half-open except the last, which also holds max. When all values are
// equal the range is widened by 0.5 on each side so the bins keep a width.
func Histogram(values []float64, bins int) []RangeBucket {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(bins)
	out := make([]RangeBucket, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}
