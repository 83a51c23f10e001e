package source

// isTrimSpace reports ASCII whitespace as understood by token text extraction.
func isTrimSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// TrimmedText returns content[start:end] with leading and trailing ASCII whitespace removed.
// Both scans saturate at start == end, so an all-whitespace or empty range yields "".
// Out-of-range bounds are clamped to the content.
func TrimmedText(content []byte, start, end uint32) string {
	s, e := clampRange(len(content), start, end)
	for s < e && isTrimSpace(content[s]) {
		s++
	}
	for e > s && isTrimSpace(content[e-1]) {
		e--
	}
	return string(content[s:e])
}
