package utils

// Ptr returns a pointer to the provided value v. Useful for creating pointers
// to literals when populating optional fields.
func Ptr[T any](v T) *T {
	return &v
}
