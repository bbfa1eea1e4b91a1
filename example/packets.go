// Package example declares a few game protocol packets and shows how they
// are dispatched from a stream.
package example

type Empire uint8

const (
	EmpireShinsoo Empire = iota + 1
	EmpireChunjo
	EmpireJinno
)

// Target selects an entity by its virtual id.
type Target struct {
	_       struct{} `packet:"header=0x01"`
	Vid     uint32
	Unknown [2]byte
}

// ChatOutgoing carries a chat line. Size holds the whole packet length.
type ChatOutgoing struct {
	_           struct{} `packet:"header=0x04"`
	Size        uint16
	MessageType byte
	Vid         uint32
	Empire      Empire
	Message     string `packet:"total=Size"`
}

type Member struct {
	Pid   uint32
	Grade byte
	Name  string `packet:"len=25"`
}

// GuildMemberList is one of the 0x26 guild packets; the sub-header picks
// the variant.
type GuildMemberList struct {
	_       struct{} `packet:"header=0x26,subheader=0x05"`
	Count   uint16
	Members []Member `packet:"size=Count"`
}

// GuildRename shares header 0x26 with GuildMemberList.
type GuildRename struct {
	_    struct{} `packet:"header=0x26,subheader=0x09"`
	Name string   `packet:"len=12"`
}
