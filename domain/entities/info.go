package entities

// Info is the decoded ABI info word a library may export.
//
// Encoding: the low byte is the numeric width in bytes the library was
// built for (0 = any); the remaining bits are (major << 16) | (minor << 8).
type Info struct {
	Width int
	Major int
	Minor int
}

const widthMask = 0xFF

// PackInfo encodes an info word.
func PackInfo(width, major, minor int) int {
	return major<<16 | (minor&0xFF)<<8 | width&widthMask
}

// ParseInfo decodes an info word.
func ParseInfo(n int) Info {
	return Info{
		Width: n & widthMask,
		Major: (n &^ 0xFFFF) >> 16,
		Minor: (n & 0xFF00) >> 8,
	}
}

// HasVersion reports whether the word carries a packed version.
func HasVersion(n int) bool {
	return n&^widthMask != 0
}
