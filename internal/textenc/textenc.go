// Package textenc resolves character encodings by their WHATWG names.
package textenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Lookup returns the encoding registered under name. An empty name and
// UTF-8 aliases return nil, meaning no transcoding is needed.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Encode transcodes UTF-8 text into the named encoding. Characters the
// target cannot represent are an error.
func Encode(b []byte, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil || enc == nil {
		return b, err
	}
	out, err := enc.NewEncoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", name, err)
	}
	return out, nil
}

// NewReader wraps r so that it yields UTF-8 decoded from the named
// encoding.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil || enc == nil {
		return r, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
