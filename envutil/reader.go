package envutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var (
	ErrBadEnvVar     = errors.New("error parsing environment variable")
	ErrEnvVarMissing = errors.New("missing environment variable")
)

// Source tells where a Reader's value came from.
type Source string

const (
	SourceUnset    Source = "unset"
	SourceEnv      Source = "env"
	SourceOverride Source = "override"
	SourceDefault  Source = "default"
)

// Reader holds one typed configuration value: the variable it was read from,
// where the value came from and the parse error, if any.
type Reader[A any] struct {
	key    string
	source Source
	err    error
	value  A
}

func (r Reader[A]) present() bool {
	return r.source != SourceUnset && r.source != ""
}

// Value returns the value, or an error wrapping ErrBadEnvVar or ErrEnvVarMissing.
func (r Reader[A]) Value() (A, error) {
	switch {
	case r.err != nil:
		return r.value, fmt.Errorf("%w %s: %w", ErrBadEnvVar, r.key, r.err)
	case !r.present():
		return r.value, fmt.Errorf("%w %s", ErrEnvVarMissing, r.key)
	default:
		return r.value, nil
	}
}

// ValueOrFatal is Value for process startup: any error is logged and the process exits.
func (r Reader[A]) ValueOrFatal() A {
	value, err := r.Value()
	if err != nil {
		slog.Error("error reading environment variable", "key", r.key, "error", err)
		os.Exit(1)
	}

	return value
}

// ValueOrElse returns fallback when the value is missing or malformed. Parse errors
// are logged at warn level.
func (r Reader[A]) ValueOrElse(fallback A) A {
	if r.HasValue() {
		return r.value
	}

	if r.err != nil {
		slog.Warn("error reading environment variable, using fallback value",
			"key", r.key, "error", r.err, "fallback", fallback)
	}

	return fallback
}

// HasValue reports whether a value is present and parsed.
func (r Reader[A]) HasValue() bool {
	return r.present() && r.err == nil
}

// Error returns the parse error, if any.
func (r Reader[A]) Error() error {
	return r.err
}

// Source returns where the value came from.
func (r Reader[A]) Source() Source {
	if r.source == "" {
		return SourceUnset
	}

	return r.source
}

// orDefault fills in dfl when nothing was read. A malformed value keeps its error.
func (r Reader[A]) orDefault(dfl A) Reader[A] {
	if r.present() {
		return r
	}

	r.source = SourceDefault
	r.value = dfl

	return r
}

// Map transforms a present, well-formed value with f. Missing values and earlier
// errors pass through untouched.
func Map[A any, B any](rdr Reader[A], f func(A) (B, error)) Reader[B] {
	out := Reader[B]{key: rdr.key, source: rdr.source, err: rdr.err}

	if !rdr.HasValue() {
		return out
	}

	out.value, out.err = f(rdr.value)

	return out
}
