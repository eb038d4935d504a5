package textmatch

// withinDistance reports whether the Levenshtein distance between a and b is
// at most k. Only the diagonal band of width 2k+1 is computed and the scan
// stops as soon as every cell of a row exceeds k.
func withinDistance(a, b string, k int) bool {
	if k < 0 {
		return false
	}
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if abs(n-m) > k {
		return false
	}
	if n == 0 || m == 0 {
		return max(n, m) <= k
	}

	inf := k + 1
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for j := range prev {
		prev[j] = min(j, inf)
	}

	for i := 1; i <= n; i++ {
		lo := max(1, i-k)
		hi := min(m, i+k)

		rowMin := inf
		if lo == 1 {
			cur[0] = min(i, inf)
			rowMin = cur[0]
		} else {
			cur[lo-1] = inf
		}

		for j := lo; j <= hi; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			v := prev[j-1] + cost
			if d := prev[j] + 1; d < v {
				v = d
			}
			if d := cur[j-1] + 1; d < v {
				v = d
			}
			v = min(v, inf)
			cur[j] = v
			rowMin = min(rowMin, v)
		}
		if hi < m {
			cur[hi+1] = inf
		}
		if rowMin > k {
			return false
		}
		prev, cur = cur, prev
	}
	return prev[m] <= k
}
