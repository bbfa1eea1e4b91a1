package testdata

// @packet header=zz
type BrokenAnnotation struct {
	A uint8
}

// @packet header=0x10
type BrokenTag struct {
	A uint8  `packet:"order=x"`
	B string `packet:"len=4"`
}

// @packet header=0x11
type Unsupported struct {
	M map[string]int
	P *Member
	I int
	Q other.Type
}
