// Package jsonstream reads one scalar out of a JSON document without decoding all of it.
package jsonstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Angler struct {
	dec  *json.Decoder
	keys []string
	seen strings.Builder
}

var ErrNotFound = errors.New("path not found")

func isDelim(t json.Token, d json.Delim) bool {
	got, ok := t.(json.Delim)

	return ok && got == d
}

// NewAngler prepares a lookup of path, written as ".key.nested".
// Keys containing dots cannot be addressed.
func NewAngler(stream io.Reader, path string) (*Angler, error) {
	if !strings.HasPrefix(path, ".") {
		return nil, errors.New(`path must start with the dot character "."`)
	}

	if strings.HasSuffix(path, ".") {
		return nil, errors.New(`path must not end with the dot character "."`)
	}

	return &Angler{dec: json.NewDecoder(stream), keys: strings.Split(path, ".")[1:]}, nil
}

// Land returns the scalar at the path.
// Non-nil returned error wraps [ErrNotFound] when some key on the path is missing.
func (a *Angler) Land(ctx context.Context) (any, error) {
	for _, key := range a.keys {
		if err := a.enter(ctx, key); err != nil {
			return nil, err
		}
	}

	t, err := a.dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read the value at %q: %w", a.seen.String(), err)
	}

	if d, ok := t.(json.Delim); ok {
		return nil, fmt.Errorf("the value at %q is not a scalar but starts with %v", a.seen.String(), d)
	}

	return t, nil
}

// enter consumes tokens up to and including the member name key of the current object.
func (a *Angler) enter(ctx context.Context, key string) error {
	where := a.seen.String()
	if where == "" {
		where = "."
	}

	t, err := a.dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read the value at %q: %w", where, err)
	}

	if !isDelim(t, '{') {
		return fmt.Errorf("the value at %q is not a JSON object", where)
	}

	a.seen.WriteString("." + key)

	for a.dec.More() {
		if err = context.Cause(ctx); err != nil {
			return fmt.Errorf("stopped looking for %q: %w", a.seen.String(), err)
		}

		if t, err = a.dec.Token(); err != nil {
			return err
		}

		if name, ok := t.(string); ok && name == key {
			return nil
		}

		if err = a.skip(); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %q", ErrNotFound, a.seen.String())
}

// skip consumes one complete value.
func (a *Angler) skip() error {
	depth := 0

	for {
		t, err := a.dec.Token()
		if err != nil {
			return err
		}

		switch {
		case isDelim(t, '{'), isDelim(t, '['):
			depth++
		case isDelim(t, '}'), isDelim(t, ']'):
			depth--
		default:
		}

		if depth == 0 {
			return nil
		}
	}
}

// LandString is Land for string values.
func LandString(ctx context.Context, stream io.Reader, path string) (string, error) {
	a, err := NewAngler(stream, path)
	if err != nil {
		return "", err
	}

	v, err := a.Land(ctx)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("the value at %q is not a string", path)
	}

	return s, nil
}
