package example

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/wirepack"
	"github.com/alexhholmes/wirepack/internal/testutil/testlog"
)

func TestChatOutgoingWire(t *testing.T) {
	testlog.Start(t)
	c := wirepack.MustCompile[ChatOutgoing]()

	msg := &ChatOutgoing{MessageType: 1, Vid: 42, Empire: EmpireChunjo, Message: "hello"}
	b, err := c.Marshal(msg)
	require.NoError(t, err)

	want := []byte{
		0x04,       // header
		0x0f, 0x00, // Size: whole packet
		0x01,                   // MessageType
		0x2a, 0x00, 0x00, 0x00, // Vid
		0x02,                               // Empire
		'h', 'e', 'l', 'l', 'o', 0x00, // Message
	}
	assert.Equal(t, want, b)
	assert.Equal(t, uint16(15), c.GetSize(msg))

	got, err := c.Deserialize(b, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(15), got.Size)
	assert.Equal(t, "hello", got.Message)
	assert.Equal(t, EmpireChunjo, got.Empire)
}

func TestGuildMemberListWire(t *testing.T) {
	testlog.Start(t)
	c := wirepack.MustCompile[GuildMemberList]()

	list := &GuildMemberList{Members: []Member{
		{Pid: 7, Grade: 1, Name: "alice"},
		{Pid: 9, Grade: 3, Name: "bob"},
	}}
	b, err := c.Marshal(list)
	require.NoError(t, err)
	require.Len(t, b, 4+2*30)

	assert.Equal(t, []byte{0x26, 0x05, 0x02, 0x00}, b[:4])
	assert.Equal(t, []byte{0x07, 0x00, 0x00, 0x00, 0x01, 'a', 'l', 'i', 'c', 'e', 0x00}, b[4:15])
	assert.Equal(t, make([]byte, 20), b[14:34], "fixed names are zero padded")

	got, err := c.Deserialize(b, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), got.Count)
	assert.Equal(t, list.Members, got.Members)

	m := c.Metadata()
	assert.False(t, m.HasStaticSize)
	assert.Equal(t, 4, m.Size)
	require.NotNil(t, m.SubHeader)
	assert.Equal(t, byte(0x05), m.SubHeader.Value)
}

func TestTargetIsStatic(t *testing.T) {
	c := wirepack.MustCompile[Target]()
	m := c.Metadata()
	assert.True(t, m.HasStaticSize)
	assert.Equal(t, 7, m.Size)

	b, err := c.Marshal(&Target{Vid: 0x01020304, Unknown: [2]byte{0xaa, 0xbb}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x04, 0x03, 0x02, 0x01, 0xaa, 0xbb}, b)
}

func TestDispatcherOverPipe(t *testing.T) {
	testlog.Start(t)
	packets := []any{
		&Target{Vid: 5},
		&GuildRename{Name: "knights"},
		&ChatOutgoing{Vid: 5, Empire: EmpireJinno, Message: "gg"},
		&GuildMemberList{Members: []Member{{Pid: 1, Name: "x"}}},
	}

	var stream bytes.Buffer
	for _, p := range packets {
		stream.Write(marshal(t, p))
	}

	client, server := net.Pipe()
	defer client.Close()
	go func() {
		defer server.Close()
		_, _ = server.Write(stream.Bytes())
	}()

	d, err := NewDispatcher(client)
	require.NoError(t, err)

	ctx := context.Background()
	for i := range packets {
		got, err := d.Next(ctx)
		require.NoError(t, err, "packet %d", i)
		assert.IsType(t, packets[i], got)
	}

	mustNext(t, d, nil)
}

// mustNext expects Next to fail with want, io.EOF when nil.
func mustNext(t *testing.T, d *Dispatcher, want error) {
	t.Helper()
	if want == nil {
		want = io.EOF
	}
	_, err := d.Next(context.Background())
	require.ErrorIs(t, err, want)
}

func TestDispatcherUnknownPacket(t *testing.T) {
	d, err := NewDispatcher(bytes.NewReader([]byte{0x26, 0x77, 0x00}))
	require.NoError(t, err)
	mustNext(t, d, ErrUnknownPacket)

	d, err = NewDispatcher(bytes.NewReader([]byte{0x99}))
	require.NoError(t, err)
	mustNext(t, d, ErrUnknownPacket)
}

func TestTruncatedStream(t *testing.T) {
	testlog.Start(t)
	c := wirepack.MustCompile[ChatOutgoing]()
	b, err := c.Marshal(&ChatOutgoing{Message: "cut short"})
	require.NoError(t, err)

	_, err = c.DeserializeFromStream(context.Background(), bytes.NewReader(b[:12]))
	require.ErrorIs(t, err, wirepack.ErrTruncated)

	var de *wirepack.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Message", de.Field)
	assert.Equal(t, 9, de.Offset)
}

type TwoDynamic struct {
	_ struct{} `packet:"header=0x50"`
	A string
	B string
}

func TestRejectsTwoDynamicFields(t *testing.T) {
	diags := wirepack.Check[TwoDynamic]()
	assert.True(t, diags.Has(wirepack.MultipleDynamicFields))

	_, err := wirepack.Compile[TwoDynamic]()
	var list wirepack.Diagnostics
	require.True(t, errors.As(err, &list))
	assert.True(t, list.Has(wirepack.MultipleDynamicFields))
}

func marshal(t *testing.T, p any) []byte {
	t.Helper()
	var (
		b   []byte
		err error
	)
	switch v := p.(type) {
	case *Target:
		b, err = wirepack.MustCompile[Target]().Marshal(v)
	case *ChatOutgoing:
		b, err = wirepack.MustCompile[ChatOutgoing]().Marshal(v)
	case *GuildMemberList:
		b, err = wirepack.MustCompile[GuildMemberList]().Marshal(v)
	case *GuildRename:
		b, err = wirepack.MustCompile[GuildRename]().Marshal(v)
	default:
		t.Fatalf("no codec for %T", p)
	}
	require.NoError(t, err)
	return b
}
