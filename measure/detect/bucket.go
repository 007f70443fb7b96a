package detect

// Bucket is a contiguous D0 sub-range probed at Mid.
type Bucket struct {
	Lo, Mid, Hi int
}

// Buckets partitions [lo, hi] into contiguous buckets of width
// (hi-lo+1)/n, at least 1. The last bucket may be narrower, and the count
// can differ from n. Every D0 belongs to exactly one bucket.
func Buckets(lo, hi, n int) []Bucket {
	if hi < lo {
		lo, hi = hi, lo
	}
	if n < 1 {
		n = 1
	}

	width := max((hi-lo+1)/n, 1)

	var out []Bucket
	for start := lo; start <= hi; start += width {
		end := min(start+width-1, hi)
		out = append(out, Bucket{Lo: start, Mid: start + (end-start+1)/2, Hi: end})
	}
	return out
}
