package parser

// CleanString trims fixed-width padding from a field value.
//
// Trailing bytes are dropped until one is ASCII alphanumeric, ASCII
// punctuation, or has the high bit set (UTF-8 / code page text). Leading
// ASCII whitespace is then dropped. The result is stable under a second
// application.
func CleanString(s string) string {
	end := len(s)
	for end > 0 && !isKeptTrailing(s[end-1]) {
		end--
	}
	start := 0
	for start < end && isSpace(s[start]) {
		start++
	}
	return s[start:end]
}

func isKeptTrailing(c byte) bool {
	return isAlnum(c) || isPunct(c) || c > 127
}

func isAlnum(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// isPunct reports printable, non-space, non-alphanumeric ASCII.
func isPunct(c byte) bool {
	return c > ' ' && c < 0x7F && !isAlnum(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isSpace matches the C locale whitespace set.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// IsBlankOrNumeric reports whether every byte of s is an ASCII digit or
// whitespace. The empty string qualifies.
func IsBlankOrNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) && !isSpace(s[i]) {
			return false
		}
	}
	return true
}

// lowerASCII lowercases A-Z only, leaving every other byte untouched.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
