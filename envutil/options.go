package envutil

// Option post-processes a Reader, for defaults and validation.
type Option[T any] func(Reader[T]) Reader[T]

// Default supplies dfl when the variable is unset.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.orDefault(dfl)
	}
}

// Validate runs f on a present value; its error becomes the Reader's error.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return Map(rdr, func(val T) (T, error) {
			return val, f(val)
		})
	}
}
