package resolve

// SubstitutePathParams replaces :name path-parameter tokens in input with
// values from lookup. Postman's own implementation matches this with a
// regex using a negative lookbehind and a lookahead
// ((?<![a-zA-Z0-9_]):([a-zA-Z_][a-zA-Z0-9_]*)(?=/|\?|$|&|#)); Go's RE2
// engine has no lookbehind, so this is a manual character scan
// reproducing the same rule: a ':' not preceded by an identifier
// character, followed by an identifier, followed by '/', '?', '&', '#',
// or end of string.
func SubstitutePathParams(input string, lookup func(name string) (string, bool)) (string, []Diagnostic) {
	var diags []Diagnostic
	var out []byte
	runes := []rune(input)
	n := len(runes)

	precededByIdentChar := func(i int) bool {
		if i == 0 {
			return false
		}
		return isIdentPart(runes[i-1])
	}
	followedByBoundary := func(i int) bool {
		if i >= n {
			return true
		}
		switch runes[i] {
		case '/', '?', '&', '#':
			return true
		default:
			return false
		}
	}

	i := 0
	for i < n {
		r := runes[i]
		if r == ':' && !precededByIdentChar(i) && i+1 < n && isIdentStart(runes[i+1]) {
			j := i + 1
			for j < n && isIdentPart(runes[j]) {
				j++
			}
			name := string(runes[i+1 : j])
			if followedByBoundary(j) {
				if v, ok := lookup(name); ok {
					out = append(out, v...)
				} else {
					diags = append(diags, Diagnostic{Kind: DiagUnresolved, Key: name, Message: "unresolved path parameter :" + name})
					out = append(out, byte(':'))
					out = appendRunes(out, runes[i+1:j])
				}
				i = j
				continue
			}
		}
		out = appendRune(out, r)
		i++
	}
	return string(out), diags
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func appendRune(b []byte, r rune) []byte {
	return append(b, []byte(string(r))...)
}

func appendRunes(b []byte, rs []rune) []byte {
	return append(b, []byte(string(rs))...)
}
