package testdata

const NameLen = 25

type Empire uint8

// ChatOutgoing is sent by the server for every chat line.
//
// @packet header=0x04 sequence
type ChatOutgoing struct {
	Size        uint16
	MessageType uint8
	Vid         uint32
	Empire      Empire
	Message     string `packet:"total=Size"`
}

// @packet header=0x26 subheader=0x05 subpos=0
type GuildMemberList struct {
	Count   uint8
	Members []Member `packet:"size=Count"`
}

type Member struct {
	Pid   uint32
	Grade uint8
	Name  [NameLen]byte
}

// Marked with a blank field instead of a doc comment.
type Target struct {
	_     struct{} `packet:"header=0x3F"`
	Vid   uint32
	Hp    int8
	cache []byte
	Debug string `packet:"-"`
}

// No annotation - nested candidate only
type Position struct {
	X, Y int32
}
