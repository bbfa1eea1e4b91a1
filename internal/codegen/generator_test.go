package codegen

import (
	goparser "go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/wirepack/internal/analyzer"
	"github.com/alexhholmes/wirepack/internal/parser"
	"github.com/alexhholmes/wirepack/internal/schema"
)

func analyzeSource(t *testing.T, src string) []*schema.TypeDescriptor {
	t.Helper()
	file, err := parser.ParseSource("packets.go", "package game\n\n"+src)
	require.NoError(t, err)
	descs, diags := analyzer.AnalyzeFile(file, analyzer.RegistryFor(file))
	require.Empty(t, diags)
	return descs
}

func generate(t *testing.T, src string) string {
	t.Helper()
	gen := NewGenerator("game", "packets.go")
	for _, d := range analyzeSource(t, src) {
		gen.Add(d)
	}
	code, err := gen.Generate()
	require.NoError(t, err)

	_, err = goparser.ParseFile(token.NewFileSet(), "packets_packet.go", code, goparser.AllErrors)
	require.NoError(t, err, "generated code does not parse:\n%s", code)
	return string(code)
}

// assertCompact checks for want with all blanks removed, so assertions do
// not depend on gofmt spacing and alignment.
func assertCompact(t *testing.T, code, want string) {
	t.Helper()
	squash := strings.NewReplacer(" ", "", "\t", "")
	assert.Contains(t, squash.Replace(code), squash.Replace(want))
}

func TestGenerate_StaticPacket(t *testing.T) {
	code := generate(t, `
// @packet header=0x01
type Target struct {
	Vid     uint32
	Unknown [2]byte
}`)

	assert.Contains(t, code, "// Code generated by packetgen from packets.go. DO NOT EDIT.")
	assert.Contains(t, code, "func (*Target) PacketMetadata() wirepack.Metadata")
	assert.Contains(t, code, "func (p *Target) GetSize() uint16 {\n\treturn 7\n}")
	assert.Contains(t, code, "func (p *Target) Serialize(buf []byte, offset int) (int, error)")
	assert.Contains(t, code, "func (p *Target) Deserialize(buf []byte, offset int) error")
	assert.Contains(t, code, "func (p *Target) DeserializeFromStream(ctx context.Context, r io.Reader) error")

	assertCompact(t, code, `buf[offset] = 0x01`)
	assertCompact(t, code, `binary.LittleEndian.PutUint32(buf[offset+1:], uint32(p.Vid))`)
	assertCompact(t, code, `copy(buf[offset+5:], p.Unknown[:])`)
	assertCompact(t, code, `HasStaticSize:true`)
	assertCompact(t, code, `Size:7,`)
	assert.NotContains(t, code, "ErrPacketTooLarge", "static packets cannot exceed the limit")
	assert.NotContains(t, code, `"math"`)
}

func TestGenerate_TotalSizeString(t *testing.T) {
	code := generate(t, `
type Empire uint8

// @packet header=0x04
type ChatOutgoing struct {
	Size        uint16
	MessageType byte
	Vid         uint32
	Empire      Empire
	Message     string `+"`packet:\"total=Size\"`"+`
}`)

	assertCompact(t, code, "size := 9 + (len(p.Message) + 1)")
	assert.Contains(t, code, "wirepack.ErrPacketTooLarge")
	assertCompact(t, code, `PutUint16(buf[offset+1:], uint16(size))`)
	assertCompact(t, code, `buf[offset+8] = byte(p.Empire)`)
	assertCompact(t, code, `v.Empire = Empire(buf[offset+8])`)

	// decode derives the message width from the total
	assert.Contains(t, code, "src := int(v.Size)")
	assert.Contains(t, code, "dyn = src - 9")
	assert.Contains(t, code, "if dyn < 1 {")
	assert.Contains(t, code, "wirepack.ErrInvalidLength")
	assertCompact(t, code, `v.Message = wirepack.CString(buf[offset+9 : offset+9+dyn-1])`)
	assertCompact(t, code, `HasStaticSize:false`)

	// a NUL inside the message would end it early on decode
	assert.Contains(t, code, `"strings"`)
	assert.Contains(t, code, "if strings.IndexByte(p.Message, 0) >= 0 {")
	assert.Contains(t, code, "wirepack.ErrEmbeddedNUL")
}

func TestGenerate_CountArrayWithSubHeader(t *testing.T) {
	code := generate(t, `
type Member struct {
	Pid   uint32
	Grade byte
	Name  string `+"`packet:\"len=25\"`"+`
}

// @packet header=0x26 subheader=0x05
type GuildMemberList struct {
	Count   uint16
	Members []Member `+"`packet:\"size=Count\"`"+`
}`)

	assertCompact(t, code, `SubHeader:&wirepack.SubHeader{Value: 0x05, Position: 0}`)
	assertCompact(t, code, `buf[offset+1] = 0x05`)
	assertCompact(t, code, "size := 4 + len(p.Members)*30")
	assertCompact(t, code, `PutUint16(buf[offset+2:], uint16(len(p.Members)))`)

	// nested struct elements are flattened into the loop body
	assert.Contains(t, code, "for i := range p.Members {")
	assertCompact(t, code, `PutUint32(buf[offset+4+i*30:], uint32(p.Members[i].Pid))`)
	assertCompact(t, code, `clear(buf[offset+4+i*30+5 : offset+4+i*30+5+25])`)

	assert.Contains(t, code, "count = src")
	assertCompact(t, code, "dyn = count * 30")
	assert.Contains(t, code, "make([]Member, count)")
	assert.Contains(t, code, "if count > 0 {")
	assert.Contains(t, code, "wirepack.ErrHeaderMismatch")
}

func TestGenerate_SequenceAndStream(t *testing.T) {
	code := generate(t, `
// @packet header=0x13 sequence
type Whisper struct {
	Size    uint16
	Target  string `+"`packet:\"len=8\"`"+`
	Message string `+"`packet:\"total=Size\"`"+`
}`)

	assertCompact(t, code, `HasSequence:true`)
	assertCompact(t, code, `buf[offset+11+(len(p.Message) + 1)] = 0`)
	assert.Contains(t, code, "sequence value is not checked")

	assert.Contains(t, code, "b, err := wirepack.AcquireBuffer()")
	assert.Contains(t, code, "defer wirepack.ReleaseBuffer(b)")
	assert.Contains(t, code, "defer wirepack.BindContext(ctx, r)()")
	assert.Contains(t, code, `wirepack.ReadFull(ctx, r, buf, read, "Whisper", "Message")`)
	assert.Contains(t, code, "buf := b.Bytes(dyn)")
	assert.Contains(t, code, "read += dyn")

	assertCompact(t, code, `if len(p.Target) > 8 {`)
	assert.Contains(t, code, "wirepack.ErrValueTooLong")
}

func TestGenerate_NarrowSizeSource(t *testing.T) {
	code := generate(t, `
// @packet header=0x30
type Tiny struct {
	N    uint8
	Data []byte `+"`packet:\"size=N\"`"+`
}`)

	assert.Contains(t, code, "if len(p.Data) > 255 {")
	assert.Contains(t, code, "wirepack.ErrSizeOverflow")
	assertCompact(t, code, `copy(v.Data[:], buf[offset+2:])`)
	assert.NotContains(t, code, "v.N < 0", "unsigned sources cannot be negative")
	assert.NotContains(t, code, "v.N > 65535")
}

func TestGenerate_WideSizeSource(t *testing.T) {
	code := generate(t, `
// @packet header=0x30
type Big struct {
	Count uint64
	Items []uint64 `+"`packet:\"size=Count\"`"+`
}`)

	assert.Contains(t, code, "if v.Count > 65535 {")
	assert.Contains(t, code, "if dyn > 65526 {")
	assert.NotContains(t, code, "v.Count < 0")
	assert.Equal(t, 4, strings.Count(code, "exceeds the packet limit"), "source and width bound in both readers")

	// both readers reject the length before sizing anything from it
	for _, fn := range []string{"Deserialize(", "DeserializeFromStream("} {
		body := code[strings.Index(code, fn):]
		assert.Less(t, strings.Index(body, "v.Count > 65535"), strings.Index(body, "make([]uint64, count)"), fn)
	}
	stream := code[strings.Index(code, "DeserializeFromStream("):]
	assert.Less(t, strings.Index(stream, "dyn > 65526"), strings.Index(stream, "b.Bytes(dyn)"))
}

func TestGenerate_SignedTotalSource(t *testing.T) {
	code := generate(t, `
// @packet header=0x31
type Note struct {
	Total int32
	Text  string `+"`packet:\"total=Total\"`"+`
}`)

	assert.Contains(t, code, "if v.Total > 65535 {")
	assert.Contains(t, code, "if v.Total < 0 {")
	assert.Contains(t, code, "dyn = src - 5")
	// a total never exceeds the source bound, so no second check
	assert.NotContains(t, code, "dyn > ")
}

func TestGenerate_FloatsAndSigned(t *testing.T) {
	code := generate(t, `
// @packet header=0x40
type Position struct {
	X     float32
	Y     float64
	Delta int16
	Alive bool
}`)

	assert.Contains(t, code, `"math"`)
	assertCompact(t, code, `math.Float32bits(float32(p.X))`)
	assertCompact(t, code, `v.Y = math.Float64frombits`)
	assertCompact(t, code, `v.Delta = int16(binary.LittleEndian.Uint16(buf[offset+13:]))`)
	assertCompact(t, code, `v.Alive = buf[offset+15] != 0`)
}

const chatYAML = `
package: game
enums:
  - name: Empire
    type: uint8
types:
  - name: Member
    fields:
      - {name: Pid, type: uint32}
      - {name: Name, type: string, len: 25}
  - name: ChatOutgoing
    header: 0x04
    sequence: true
    fields:
      - {name: Size, type: uint16}
      - {name: Empire, type: Empire}
      - {name: Message, type: string, total: Size}
  - name: Reordered
    header: 0x26
    subheader: 0x05
    fields:
      - {name: A, type: uint8}
      - {name: B, type: uint16, order: 0}
`

func TestGenerate_DeclaresYAMLTypes(t *testing.T) {
	file, err := parser.ParseYAML("chat.yaml", []byte(chatYAML))
	require.NoError(t, err)
	descs, diags := analyzer.AnalyzeFile(file, analyzer.RegistryFor(file))
	require.Empty(t, diags)

	gen := NewGenerator(file.Package, "chat.yaml")
	gen.Declare(file)
	for _, d := range descs {
		gen.Add(d)
	}
	code, err := gen.Generate()
	require.NoError(t, err)

	src := string(code)
	assert.Contains(t, src, "type Empire uint8")
	assert.Contains(t, src, "type Member struct {")
	assertCompact(t, src, "_ struct{} `packet:\"header=0x04,sequence\"`")
	assert.Contains(t, src, "`packet:\"total=Size\"`")
	assert.Contains(t, src, "`packet:\"order=0\"`")

	// the declarations read back through the Go front-end to the same layouts
	reparsed, err := parser.ParseSource("chat_packet.go", code)
	require.NoError(t, err)
	again, diags := analyzer.AnalyzeFile(reparsed, analyzer.RegistryFor(reparsed))
	require.Empty(t, diags)
	require.Len(t, again, len(descs))
	for i := range descs {
		assert.Equal(t, descs[i].Metadata(), again[i].Metadata())
		assert.Equal(t, len(descs[i].Fields), len(again[i].Fields))
	}
}

func TestGenerate_HeaderlessRoot(t *testing.T) {
	gen := NewGenerator("game", "nested.yaml")
	gen.Declare(&parser.File{Types: []*parser.TypeLayout{{
		Name: "Pair",
		Anno: &parser.TypeAnnotation{Header: -1, SubHeader: -1},
		Fields: []parser.Field{
			{Name: "A", GoType: "uint8", Tag: &parser.FieldTag{Order: -1}},
		},
	}}})
	code, err := gen.Generate()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(code), "// @packet\ntype Pair struct {"), string(code))
}
