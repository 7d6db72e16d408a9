package util

// FalseIfNil dereferences a bool pointer, treating nil as false
func FalseIfNil(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
