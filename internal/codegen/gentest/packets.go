// Package gentest holds packets with committed packetgen output. Its tests
// hold the generated methods to the runtime codec's wire format.
package gentest

//go:generate go run ../../../cmd/packetgen packets.go

type Empire uint8

// Target is fully static.
type Target struct {
	_       struct{} `packet:"header=0x01"`
	Vid     uint32
	Unknown [2]byte
}

// Chat carries a line of text. Size holds the whole packet length.
type Chat struct {
	_       struct{} `packet:"header=0x04,sequence"`
	Size    uint16
	Empire  Empire
	Message string `packet:"total=Size"`
}

type Member struct {
	Pid   uint32
	Alive bool
	Name  string `packet:"len=8"`
}

// MemberList is the 0x05 variant of the 0x26 packets.
type MemberList struct {
	_       struct{} `packet:"header=0x26,subheader=0x05"`
	Count   uint32
	Members []Member `packet:"size=Count"`
}

type Position struct {
	_     struct{} `packet:"header=0x40"`
	X     float32
	Y     float64
	Delta int16
	Tags  [2]uint16
}
