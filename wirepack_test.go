package wirepack_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/wirepack"
	"github.com/alexhholmes/wirepack/internal/testutil/testlog"
)

type Empire uint8

type ChatOutgoing struct {
	_           struct{} `packet:"header=0x04"`
	Length      uint16
	MessageType uint8
	Vid         uint32
	Empire      Empire
	Message     string `packet:"total=Length"`
}

type Target struct {
	_       struct{} `packet:"header=0x01"`
	Vid     uint32
	Unknown [2]byte
}

type Refine struct {
	_    struct{} `packet:"header=0x26,subheader=0x05"`
	Cell uint16
}

type RefineCancel struct {
	_    struct{} `packet:"header=0x26,subheader=0x06"`
	Cell uint16
}

type TwoDynamic struct {
	_ struct{} `packet:"header=0x30"`
	N uint8
	M uint8
	A []uint16 `packet:"size=N"`
	B []uint16 `packet:"size=M"`
}

func TestCompileAndRoundTrip(t *testing.T) {
	testlog.Start(t)
	c, err := wirepack.Compile[ChatOutgoing]()
	require.NoError(t, err)

	pkt := ChatOutgoing{MessageType: 1, Vid: 42, Empire: 3, Message: "hello"}
	assert.Equal(t, uint16(15), c.GetSize(&pkt))

	b, err := c.Marshal(&pkt)
	require.NoError(t, err)
	require.Len(t, b, 15)

	got, err := c.Deserialize(b, 0)
	require.NoError(t, err)
	pkt.Length = 15
	assert.Equal(t, pkt, got)

	streamed, err := c.DeserializeFromStream(context.Background(), bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, pkt, streamed)
}

func TestSerializeIntoSharedBuffer(t *testing.T) {
	c := wirepack.MustCompile[Target]()
	buf := make([]byte, 32)

	first := Target{Vid: 1}
	second := Target{Vid: 2, Unknown: [2]byte{9, 9}}
	n1, err := c.Serialize(&first, buf, 0)
	require.NoError(t, err)
	n2, err := c.Serialize(&second, buf, n1)
	require.NoError(t, err)
	assert.Equal(t, 7, n1)
	assert.Equal(t, 7, n2)

	got, n, err := c.DeserializeN(buf, n1)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, second, got)
}

func TestDeserializeReturnsZeroOnError(t *testing.T) {
	c := wirepack.MustCompile[ChatOutgoing]()
	pkt := ChatOutgoing{Vid: 7, Message: "abc"}
	b, err := c.Marshal(&pkt)
	require.NoError(t, err)

	got, err := c.Deserialize(b[:len(b)-1], 0)
	assert.ErrorIs(t, err, wirepack.ErrTruncated)
	assert.Equal(t, ChatOutgoing{}, got)

	got, err = c.DeserializeFromStream(context.Background(), bytes.NewReader(b[:len(b)-1]))
	assert.ErrorIs(t, err, wirepack.ErrTruncated)
	assert.Equal(t, ChatOutgoing{}, got)

	var de *wirepack.DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestCompileReportsDiagnostics(t *testing.T) {
	_, err := wirepack.Compile[TwoDynamic]()
	require.Error(t, err)

	var diags wirepack.Diagnostics
	require.ErrorAs(t, err, &diags)
	assert.True(t, diags.Has(wirepack.MultipleDynamicFields))

	assert.True(t, wirepack.Check[TwoDynamic]().Has(wirepack.MultipleDynamicFields))
	assert.Empty(t, wirepack.Check[Target]())
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { wirepack.MustCompile[TwoDynamic]() })
}

func TestMetadata(t *testing.T) {
	m := wirepack.MustCompile[Target]().Metadata()
	assert.True(t, m.HasStaticSize)
	assert.Equal(t, 7, m.Size)
	assert.Equal(t, byte(0x01), m.Header)
	assert.Nil(t, m.SubHeader)

	m = wirepack.MustCompile[ChatOutgoing]().Metadata()
	assert.False(t, m.HasStaticSize)
	assert.Equal(t, 9, m.Size)

	m = wirepack.MustCompile[Refine]().Metadata()
	require.NotNil(t, m.SubHeader)
	assert.Equal(t, byte(0x05), m.SubHeader.Value)
}

func TestWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := wirepack.Compile[Target](wirepack.WithMetrics(reg))
	require.NoError(t, err)

	_, err = c.Marshal(&Target{})
	require.NoError(t, err)

	_, err = wirepack.Compile[TwoDynamic](wirepack.WithMetrics(reg))
	require.Error(t, err)

	n, err := testutil.GatherAndCount(reg, "wirepack_codec_packets_total", "wirepack_analyzer_diagnostics_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWithBufferPool(t *testing.T) {
	p := wirepack.NewBoundedPool(1, 8)
	c := wirepack.MustCompile[Target](wirepack.WithBufferPool(p))

	b, err := c.Marshal(&Target{Vid: 5})
	require.NoError(t, err)

	buf, err := p.Acquire()
	require.NoError(t, err)
	_, err = c.DeserializeFromStream(context.Background(), bytes.NewReader(b))
	assert.ErrorIs(t, err, wirepack.ErrPoolExhausted)

	p.Release(buf)
	got, err := c.DeserializeFromStream(context.Background(), bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), got.Vid)
}

func TestSharedBuffers(t *testing.T) {
	b, err := wirepack.AcquireBuffer()
	require.NoError(t, err)
	assert.Len(t, b.Bytes(64), 64)
	wirepack.ReleaseBuffer(b)
}
