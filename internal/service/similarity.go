package service

// matchRatio computes the classic longest-matching-blocks similarity ratio
// between two strings: twice the total number of matched characters divided
// by the combined length, in [0,1]. This is block matching, not edit
// distance: it recursively finds the longest common substring and matches
// the pieces to its left and right.
func matchRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}

	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	matched := matchedChars(ra, b2j, 0, len(ra), 0, len(rb))
	return 2 * float64(matched) / float64(total)
}

func matchedChars(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) int {
	besti, bestj, bestsize := longestMatch(a, b2j, alo, ahi, blo, bhi)
	if bestsize == 0 {
		return 0
	}
	return matchedChars(a, b2j, alo, besti, blo, bestj) +
		bestsize +
		matchedChars(a, b2j, besti+bestsize, ahi, bestj+bestsize, bhi)
}

// longestMatch finds the longest block of a[alo:ahi] that also occurs in
// b[blo:bhi], preferring the earliest position on ties.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := map[int]int{}

	for i := alo; i < ahi; i++ {
		newJ2len := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}

	return besti, bestj, bestsize
}
