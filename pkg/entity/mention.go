package entity

import "regexp"

var mentionPattern = regexp.MustCompile(`(?:^|[^\w@])@([A-Za-z0-9][A-Za-z0-9._-]*)`)

// Mentions extracts @handles from note content, deduplicated in order of
// first appearance. Email addresses are not mentions.
func Mentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		handle := trimTrailingPunct(m[1])
		if handle == "" || seen[handle] {
			continue
		}
		seen[handle] = true
		out = append(out, handle)
	}
	return out
}

// trimTrailingPunct drops sentence punctuation captured at the end of a
// handle ("@ana." -> "ana").
func trimTrailingPunct(s string) string {
	for len(s) > 0 {
		switch s[len(s)-1] {
		case '.', '-', '_':
			s = s[:len(s)-1]
		default:
			return s
		}
	}
	return s
}
