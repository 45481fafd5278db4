package search

// Ratio computes Ratcliff/Obershelp similarity between two strings:
// twice the number of matching characters divided by the total length.
// Matching characters are counted by finding the longest common
// substring, then recursing on the pieces to its left and right.
// Returns a value in [0, 1]; two empty strings are identical.
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matched := matchingChars(a, b)
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest common substring, preferring the
// earliest occurrence in a on ties.
func longestMatch(a, b string) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				cur[j+1] = 0
				continue
			}
			k := prev[j] + 1
			cur[j+1] = k
			if k > size {
				size = k
				ai = i - k + 1
				bi = j - k + 1
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}
