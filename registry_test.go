package wirepack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/wirepack"
)

type Nested struct {
	X, Y int32
}

type RefineClone struct {
	_    struct{} `packet:"header=0x26 subheader=0x05"`
	Cell uint32
}

func TestRegistry(t *testing.T) {
	r := wirepack.NewRegistry()

	_, err := wirepack.Register[Target](r)
	require.NoError(t, err)
	_, err = wirepack.Register[Refine](r)
	require.NoError(t, err)
	_, err = wirepack.Register[RefineCancel](r)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	m, ok := r.Lookup(0x01, wirepack.NoSubHeader)
	require.True(t, ok)
	assert.Equal(t, 7, m.Size)

	_, ok = r.Lookup(0x01, 0x00)
	assert.False(t, ok)

	variants := r.Variants(0x26)
	require.Len(t, variants, 2)
	assert.Equal(t, byte(0x05), variants[0].SubHeader.Value)
	assert.Equal(t, byte(0x06), variants[1].SubHeader.Value)

	assert.Empty(t, r.Variants(0x99))
}

func TestRegistryRejects(t *testing.T) {
	r := wirepack.NewRegistry()
	_, err := wirepack.Register[Refine](r)
	require.NoError(t, err)

	_, err = wirepack.Register[RefineClone](r)
	assert.ErrorIs(t, err, wirepack.ErrDuplicatePacket)

	_, err = wirepack.Register[Nested](r)
	assert.Error(t, err)

	_, err = wirepack.Register[TwoDynamic](r)
	assert.Error(t, err)
	assert.Equal(t, 1, r.Len())
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "0x04", wirepack.Key{Header: 4, SubHeader: wirepack.NoSubHeader}.String())
	assert.Equal(t, "0x26/0x05", wirepack.Key{Header: 0x26, SubHeader: 5}.String())
}
