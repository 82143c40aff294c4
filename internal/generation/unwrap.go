package generation

import "strings"

const fenceMarker = "```"

// unwrapCodeFence extracts the first fenced segment from model output. The
// model may wrap its JSON answer in a delimited block with or without a
// language tag; both conventions are tolerated. Text without a fence marker
// is returned unmodified.
func unwrapCodeFence(s string) string {
	start := strings.Index(s, fenceMarker)
	if start < 0 {
		return strings.TrimSpace(s)
	}

	// Skip the opener and an optional language tag up to the first newline.
	rest := s[start+len(fenceMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if !strings.ContainsAny(tag, "{}") {
			rest = rest[nl+1:]
		}
	}

	if end := strings.Index(rest, fenceMarker); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
