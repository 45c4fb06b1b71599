package router

// ratio measures the similarity of two strings as 2*M/T, where M counts the
// characters covered by repeatedly taking the longest common block and T is
// the combined length. 1 means identical, 0 means nothing in common.
func ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(a, b)) / float64(total)
}

func matchingChars(a, b string) int {
	size, ai, bi := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest common substring, preferring the earliest
// position in a on ties.
func longestMatch(a, b string) (size, ai, bi int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				cur[j+1] = 0
				continue
			}
			cur[j+1] = prev[j] + 1
			if cur[j+1] > size {
				size = cur[j+1]
				ai = i + 1 - size
				bi = j + 1 - size
			}
		}
		prev, cur = cur, prev
	}
	return size, ai, bi
}
