package scanner

import "strings"

// NormalizePrefix expands the small "--prefix" shortcut DSL into the literal
// string the scanner requires at the start of every meaningful line:
//
//	"tab"             -> a single ASCII tab
//	"0"               -> the empty string (no prefix required)
//	an integer 1..99  -> that many spaces
//	anything with '\' -> backslash-escape expansion (\t, \n, \\)
//	anything else     -> itself, unchanged
func NormalizePrefix(raw string) string {
	switch raw {
	case "tab":
		return "\t"
	case "0":
		return ""
	}

	if n, ok := spaceCount(raw); ok {
		return strings.Repeat(" ", n)
	}

	if strings.Contains(raw, `\`) {
		return expandBackslashes(raw)
	}

	return raw
}

func spaceCount(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n := 0
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n < 1 || n > 99 {
		return 0, false
	}
	return n, true
}

func expandBackslashes(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(raw[i])
				b.WriteByte(raw[i+1])
			}
			i++
			continue
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

// NormalizeNewlines rewrites CRLF (and bare CR) line endings to LF, as
// required before the file is handed to Scan.
func NormalizeNewlines(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return content
}
