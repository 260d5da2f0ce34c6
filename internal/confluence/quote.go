package confluence

import "strings"

const upperhex = "0123456789ABCDEF"

// Quote percent-encodes s for use in a URL path. Letters, digits, the
// characters "_.-~" and any byte in safe are kept; every other byte of the
// UTF-8 encoding becomes %XX.
func Quote(s, safe string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_', c == '.', c == '-', c == '~':
		return true
	}
	return false
}
