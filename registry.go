package wirepack

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicatePacket is returned when two types claim the same header and
// sub-header.
var ErrDuplicatePacket = errors.New("wirepack: duplicate packet header")

// NoSubHeader is the sub key of a packet without a sub-header.
const NoSubHeader = -1

// Key identifies a packet on the wire.
type Key struct {
	Header    byte
	SubHeader int // NoSubHeader or 0..255
}

func (k Key) String() string {
	if k.SubHeader == NoSubHeader {
		return fmt.Sprintf("0x%02X", k.Header)
	}
	return fmt.Sprintf("0x%02X/0x%02X", k.Header, k.SubHeader)
}

// KeyOf returns the registry key of m.
func KeyOf(m Metadata) Key {
	k := Key{Header: m.Header, SubHeader: NoSubHeader}
	if m.SubHeader != nil {
		k.SubHeader = int(m.SubHeader.Value)
	}
	return k
}

// Registry maps header bytes to packet metadata for a frame dispatcher. It
// holds no framing logic of its own.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]Metadata
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]Metadata)}
}

// Register compiles T and records its metadata in r.
func Register[T any](r *Registry, opts ...Option) (*Codec[T], error) {
	c, err := Compile[T](opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Add(c.Metadata()); err != nil {
		return nil, err
	}
	return c, nil
}

// Add records m. Only packet types (with a header) can be added.
func (r *Registry) Add(m Metadata) error {
	if !m.IsPacket {
		return fmt.Errorf("wirepack: %s has no header", m.Name)
	}
	k := KeyOf(m)

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.entries[k]; ok {
		return fmt.Errorf("%w: %s used by %s and %s", ErrDuplicatePacket, k, prev.Name, m.Name)
	}
	r.entries[k] = m
	return nil
}

// Lookup returns the metadata registered for header and sub, which is
// NoSubHeader for packets without one.
func (r *Registry) Lookup(header byte, sub int) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[Key{Header: header, SubHeader: sub}]
	return m, ok
}

// Variants returns every packet sharing header, ordered by sub-header. A
// dispatcher uses it to learn whether a sub-header byte must be read.
func (r *Registry) Variants(header byte) []Metadata {
	r.mu.RLock()
	var keys []Key
	for k := range r.entries {
		if k.Header == header {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].SubHeader < keys[j].SubHeader })
	out := make([]Metadata, len(keys))
	for i, k := range keys {
		out[i] = r.entries[k]
	}
	r.mu.RUnlock()
	return out
}

// Len reports the number of registered packets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
