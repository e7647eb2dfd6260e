package common

// Middle returns the middle element of s, or false if s is empty.
// For even lengths it picks the upper of the two middle elements.
func Middle[T any](s []T) (T, bool) {
	if len(s) == 0 {
		var zero T
		return zero, false
	}
	return s[len(s)/2], true
}
