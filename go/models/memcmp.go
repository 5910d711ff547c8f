package models

// Memcmp compares the first n bytes of a and b the way the freestanding
// memcmp used for magic-number checks does: 0 if the ranges are bitwise
// identical, otherwise the sign of the first differing byte pair.
func Memcmp(a, b []byte, n int) int {
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			return -1
		} else if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
