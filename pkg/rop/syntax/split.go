package syntax

import "strings"

const chainArrow = "=>"

// Split segments `initial => step => ...` on top level arrows. Arrows nested
// in brackets or quotes are left alone.
func Split(src string) (initial string, steps []string, err error) {
	parts, offsets, err := segments(src)
	if err != nil {
		return "", nil, err
	}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return "", nil, Errorf(-1, src, offsets[i], "missing initial value")
			}
			return "", nil, Errorf(i-1, src, offsets[i], "empty step")
		}
	}
	return parts[0], parts[1:], nil
}

// SplitSteps segments `step => step => ...` with no initial value.
func SplitSteps(src string) ([]string, error) {
	parts, offsets, err := segments(src)
	if err != nil {
		return nil, err
	}
	if len(parts) == 1 && parts[0] == "" {
		return nil, nil
	}
	for i, part := range parts {
		if part == "" {
			return nil, Errorf(i, src, offsets[i], "empty step")
		}
	}
	return parts, nil
}

func segments(src string) (parts []string, offsets []int, err error) {
	start, depth := 0, 0
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '\'', '`':
			end := skipQuoted(src, i)
			if end < 0 {
				return nil, nil, Errorf(-1, src, i, "unterminated string")
			}
			i = end
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, nil, Errorf(-1, src, i, "unbalanced %q", c)
			}
		case '=':
			if depth == 0 && strings.HasPrefix(src[i:], chainArrow) {
				parts = append(parts, src[start:i])
				offsets = append(offsets, start)
				start = i + len(chainArrow)
				i++
			}
		}
	}
	if depth != 0 {
		return nil, nil, Errorf(-1, src, len(src), "unbalanced brackets")
	}
	parts = append(parts, src[start:])
	offsets = append(offsets, start)

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, offsets, nil
}

// matchClose returns the index of the bracket closing the one at open.
func matchClose(src string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '"', '\'', '`':
			end := skipQuoted(src, i)
			if end < 0 {
				return 0, false
			}
			i = end
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// skipQuoted returns the index of the quote closing the one at start, or -1.
func skipQuoted(src string, start int) int {
	q := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if q != '`' {
				i++
			}
		case q:
			return i
		}
	}
	return -1
}
