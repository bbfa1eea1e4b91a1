package wirepack

import (
	"bytes"
	"context"
	"io"

	"github.com/alexhholmes/wirepack/internal/codec"
)

// The functions below back the methods emitted by packetgen. They behave
// exactly like the corresponding steps of a compiled Codec.

// CString returns b up to its first NUL byte.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Need returns a *DecodeError unless buf holds n bytes at at.
func Need(buf []byte, at, n int, typeName, field string) error {
	return codec.Need(buf, at, n, typeName, field)
}

// ReadFull fills buf from r for one field of a stream decode. read is the
// number of packet bytes consumed before it.
func ReadFull(ctx context.Context, r io.Reader, buf []byte, read int, typeName, field string) error {
	return codec.ReadFull(ctx, r, buf, read, typeName, field)
}

// BindContext interrupts blocked reads on r when ctx is done. Call the
// returned func once reading is over.
func BindContext(ctx context.Context, r io.Reader) func() {
	return codec.BindContext(ctx, r)
}
