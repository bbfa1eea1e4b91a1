package diag

import (
	"errors"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticError(t *testing.T) {
	d := New(MissingSizeField, "ChatOutgoing", "Message", "no size source for %s", "Message")
	assert.Equal(t, "ChatOutgoing.Message: MissingSizeField: no size source for Message", d.Error())

	d.Pos = token.Position{Filename: "packets.go", Line: 12, Column: 2}
	assert.True(t, strings.HasPrefix(d.Error(), "packets.go:12:2: "))

	typeLevel := New(SelfReferenceLoop, "Node", "", "contains itself")
	assert.Equal(t, "Node: SelfReferenceLoop: contains itself", typeLevel.Error())
}

func TestListErr(t *testing.T) {
	var empty List
	require.NoError(t, empty.Err())

	l := List{
		New(MultipleDynamicFields, "B", "Tail", "second dynamic field"),
		New(OrderOutOfRange, "A", "X", "order 9 out of range"),
	}
	err := l.Err()
	require.Error(t, err)

	var got List
	require.True(t, errors.As(err, &got))
	assert.Len(t, got, 2)
	assert.True(t, got.Has(OrderOutOfRange))
	assert.False(t, got.Has(SelfReferenceLoop))
	assert.Contains(t, err.Error(), "2 schema errors")
}

func TestListSortAndFilter(t *testing.T) {
	l := List{
		New(UnknownFieldType, "B", "Z", ""),
		New(MissingSizeField, "A", "Y", ""),
		New(DuplicateOrder, "A", "X", ""),
		New(OrderOutOfRange, "A", "X", ""),
	}
	l.Sort()

	assert.Equal(t, "A", l[0].Type)
	assert.Equal(t, "X", l[0].Field)
	assert.Equal(t, OrderOutOfRange, l[0].Code)
	assert.Equal(t, DuplicateOrder, l[1].Code)
	assert.Equal(t, "Y", l[2].Field)
	assert.Len(t, l.ForType("A"), 3)
	assert.Len(t, l.ForType("C"), 0)
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "SizeFieldAfterDynamicField", SizeFieldAfterDynamicField.String())
	assert.Equal(t, "Code(99)", Code(99).String())
}
