package protocol

import "strings"

// escapeChar is the escape byte used by Encode/Decode.
const escapeChar = '%'

// EncodeIdentity maps an absolute path to a single-component basename: every
// literal '%' is doubled, then every '/' becomes a single '%'. The result
// never contains '/'. DecodeIdentity restores every path in which no '/' is
// directly followed by '%'; paths with that sequence do not round-trip, as
// "/%" and "%/" both encode to "%%%" (which decodes to "%/").
func EncodeIdentity(path string) string {
	if path == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(path))

	for i := 0; i < len(path); i++ {
		switch path[i] {
		case escapeChar:
			b.WriteByte(escapeChar)
			b.WriteByte(escapeChar)
		case '/':
			b.WriteByte(escapeChar)
		default:
			b.WriteByte(path[i])
		}
	}

	return b.String()
}

// DecodeIdentity reverses EncodeIdentity (within the limits stated there): a run of two escape
// chars decodes to one literal escape char, and skips both; any other escape
// char decodes to '/'.
func DecodeIdentity(encoded string) string {
	if encoded == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(encoded))

	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c != escapeChar {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(encoded) && encoded[i+1] == escapeChar {
			b.WriteByte(escapeChar)
			i++
			continue
		}
		b.WriteByte('/')
	}

	return b.String()
}
