package schema

import "github.com/alexhholmes/wirepack/internal/offset"

// SlotKind is the role of one wire element.
type SlotKind uint8

const (
	SlotHeader SlotKind = iota
	SlotSubHeader
	SlotField
	SlotSequence
)

// Slot is one wire element of a type in wire order, with the position it
// starts at.
type Slot struct {
	Kind  SlotKind
	Value byte             // SlotHeader, SlotSubHeader
	Field *FieldDescriptor // SlotField
	At    offset.Accumulator
}

// Slots lays t out: header, fields with the sub-header spliced in, then the
// sequence byte. end is the position after the last slot, i.e. the size.
func (t *TypeDescriptor) Slots() (slots []Slot, end offset.Accumulator) {
	acc := offset.New(0)
	emit := func(kind SlotKind, value byte) {
		slots = append(slots, Slot{Kind: kind, Value: value, At: acc.Snapshot()})
		acc.Advance(1)
	}

	if t.IsPacket {
		emit(SlotHeader, t.Header)
	}
	for i := range t.Fields {
		f := &t.Fields[i]
		if t.SubHeader != nil && t.SubHeader.Position == i {
			emit(SlotSubHeader, t.SubHeader.Value)
		}
		slots = append(slots, Slot{Kind: SlotField, Field: f, At: acc.Snapshot()})
		switch {
		case !f.HasDynamicLength():
			acc.Advance(f.StaticSize())
		case f.Kind == KindString:
			acc.AddLength(f.Name)
		default:
			acc.AddCount(f.Name, f.ElementSize)
		}
	}
	if t.SubHeader != nil && t.SubHeader.Position >= len(t.Fields) {
		emit(SlotSubHeader, t.SubHeader.Value)
	}
	if t.HasSequence {
		emit(SlotSequence, 0)
	}
	return slots, acc
}
