package types

// GrowSlice returns a slice of at least newLen elements, holding the contents of s
func GrowSlice[T any](s []T, newLen int) []T {
	if len(s) >= newLen {
		return s
	}
	bigger := make([]T, newLen)
	copy(bigger, s)
	return bigger
}

// GrowSliceFill is GrowSlice with the new tail set to fill
func GrowSliceFill[T any](s []T, newLen int, fill T) []T {
	l := len(s)
	if l >= newLen {
		return s
	}
	bigger := GrowSlice(s, newLen)
	for i := l; i < newLen; i++ {
		bigger[i] = fill
	}
	return bigger
}
