package dp

// Factorial-base permutation indexing (spec §9 redesign note: replaces the
// fragile string-keyed process caches of the original design with a dense,
// directly addressable table). Permutations are encoded/decoded via the
// standard Lehmer code in lexicographic order over [0, n).

var factorialCache = [...]int{1, 1, 2, 6, 24, 120, 720, 5040, 40320, 362880, 3628800, 39916800, 479001600}

func factorial(k int) int {
	if k >= 0 && k < len(factorialCache) {
		return factorialCache[k]
	}
	result := 1
	for i := 2; i <= k; i++ {
		result *= i
	}
	return result
}

// permAtIndex decodes the idx-th permutation of [0, n) in lexicographic
// order (0-indexed).
func permAtIndex(idx, n int) []int {
	elems := make([]int, n)
	for i := range elems {
		elems[i] = i
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		f := factorial(n - 1 - i)
		pos := idx / f
		idx %= f
		out[i] = elems[pos]
		elems = append(elems[:pos], elems[pos+1:]...)
	}
	return out
}

// indexOfPerm is the inverse of permAtIndex.
func indexOfPerm(p []int) int {
	n := len(p)
	elems := make([]int, n)
	for i := range elems {
		elems[i] = i
	}
	idx := 0
	for i := 0; i < n; i++ {
		pos := 0
		for elems[pos] != p[i] {
			pos++
		}
		idx += pos * factorial(n-1-i)
		elems = append(elems[:pos], elems[pos+1:]...)
	}
	return idx
}

// composePerm returns outer∘inner, i.e. result[i] = outer[inner[i]].
func composePerm(outer, inner []int) []int {
	out := make([]int, len(outer))
	for i, v := range inner {
		out[i] = outer[v]
	}
	return out
}

// invertPerm returns the functional inverse of p.
func invertPerm(p []int) []int {
	inv := make([]int, len(p))
	for i, v := range p {
		inv[v] = i
	}
	return inv
}

// isPermutation reports whether p is a bijection on [0, len(p)).
func isPermutation(p []int) bool {
	n := len(p)
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
