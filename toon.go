// Package toon implements TOON, a compact and human-readable superset of
// JSON. Uniform arrays of records are written as a header line followed by
// one comma-separated row per record; strings that look like identifiers
// are written without quotes; top-level objects are written one
// `key: value` pair per line.
//
// The decoder accepts everything the encoder produces as well as plain
// JSON, bare identifier keys and unquoted identifier strings.
package toon

import (
	"fmt"
	"io"
)

// Encoder writes TOON text to an output stream.
type Encoder struct {
	w    io.Writer
	opts EncodeOptions
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, opts: DefaultEncodeOptions()}
}

// SetOptions replaces the rendering options.
func (e *Encoder) SetOptions(opts EncodeOptions) {
	e.opts = opts
}

// Encode writes the encoding of v to the stream.
func (e *Encoder) Encode(v *Value) error {
	text, err := EncodeWithOptions(v, e.opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(e.w, text); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

// Decoder reads a TOON document from an input stream.
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the whole input and parses it as one document.
func (d *Decoder) Decode() (*Value, error) {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return DecodeBytes(data)
}

// Marshal returns the TOON encoding of the Go value v.
func Marshal(v any) ([]byte, error) {
	val, err := FromGo(v)
	if err != nil {
		return nil, err
	}
	text, err := Encode(val)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Unmarshal parses TOON data and stores the result in the value pointed
// to by v.
func Unmarshal(data []byte, v any) error {
	val, err := DecodeBytes(data)
	if err != nil {
		return err
	}
	return Assign(val, v)
}
