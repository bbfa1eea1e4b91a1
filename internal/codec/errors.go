package codec

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexhholmes/wirepack/internal/pool"
)

var (
	// ErrTruncated is wrapped by every DecodeError.
	ErrTruncated = errors.New("codec: truncated input")
	// ErrShortBuffer means the serialize target cannot hold the packet.
	ErrShortBuffer = errors.New("codec: buffer too small")
	// ErrValueTooLong means a fixed string does not fit its declared length.
	ErrValueTooLong = errors.New("codec: value exceeds fixed length")
	// ErrEmbeddedNUL means a dynamic string holds a NUL byte, which would end
	// it early on decode.
	ErrEmbeddedNUL = errors.New("codec: string contains NUL")
	// ErrLengthMismatch means a fixed-length slice has the wrong element count.
	ErrLengthMismatch = errors.New("codec: fixed-length slice has wrong length")
	// ErrPacketTooLarge means the wire size does not fit in uint16.
	ErrPacketTooLarge = errors.New("codec: packet exceeds 65535 bytes")
	// ErrSizeOverflow means a derived length does not fit the size source field.
	ErrSizeOverflow = errors.New("codec: length does not fit size field")
	// ErrInvalidLength means a decoded size source is inconsistent with the layout.
	ErrInvalidLength = errors.New("codec: invalid length")
	// ErrHeaderMismatch means the header or sub-header byte is not the type's.
	ErrHeaderMismatch = errors.New("codec: header mismatch")
	// ErrPoolExhausted is re-exported from the pool package.
	ErrPoolExhausted = pool.ErrPoolExhausted
)

// DecodeError reports input that ends before a field is complete.
type DecodeError struct {
	Type   string
	Field  string // empty for header, sub-header and sequence bytes
	Offset int    // absolute position in buffer mode, bytes consumed in stream mode
	Need   int
	Have   int
	Err    error
}

func (e *DecodeError) Error() string {
	where := e.Type
	if e.Field != "" {
		where += "." + e.Field
	}
	return fmt.Sprintf("%s at offset %d: need %d bytes, have %d: %v", where, e.Offset, e.Need, e.Have, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FieldError attaches the failing field to an encode or decode error.
type FieldError struct {
	Type  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Reason maps an error to a short metrics label.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrShortBuffer):
		return "short_buffer"
	case errors.Is(err, ErrValueTooLong):
		return "value_too_long"
	case errors.Is(err, ErrEmbeddedNUL):
		return "embedded_nul"
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, ErrPacketTooLarge):
		return "too_large"
	case errors.Is(err, ErrSizeOverflow):
		return "size_overflow"
	case errors.Is(err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ErrHeaderMismatch):
		return "header_mismatch"
	case errors.Is(err, ErrPoolExhausted):
		return "pool_exhausted"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "io"
	}
}
