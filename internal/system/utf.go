package system

// The UTF-8 helpers walk bytes the way the script layer indexes strings:
// 1-based byte positions, lengths in bytes, and no validation beyond
// recognising continuation bytes.

func isCont(b byte) bool { return b&0xc0 == 0x80 }

// forward returns the byte length of the sequence starting at s[i], not
// looking past s[end].
func forward(s string, i, end int) int {
	if i > end {
		return 0
	}
	if s[i]&0x80 == 0 {
		return 1
	}
	l := 1
	for i < end && isCont(s[i+1]) {
		i++
		l++
	}
	return l
}

// backward returns the byte length of the sequence ending at s[end], not
// looking before s[start].
func backward(s string, start, end int) int {
	if start > end {
		return 0
	}
	if s[end]&0x80 == 0 {
		return 1
	}
	l := 1
	for start < end && isCont(s[end]) {
		end--
		l++
	}
	return l
}

// UTFNext returns the byte length of the character starting at the
// 1-based byte index idx, or 0 when idx is out of range.
func UTFNext(s string, idx int) int {
	i := idx - 1
	if i < 0 || i >= len(s) {
		return 0
	}
	return forward(s, i, len(s)-1)
}

// UTFPrev returns the byte length of the character ending at the 1-based
// byte index idx. Zero or negative indexes count back from the end.
func UTFPrev(s string, idx int) int {
	i := idx - 1
	if i < 0 {
		i += len(s)
	}
	if i < 0 || i >= len(s) {
		return 0
	}
	return backward(s, 0, i)
}

// UTFLen counts characters.
func UTFLen(s string) int {
	n := 0
	for i := 0; i < len(s); {
		l := forward(s, i, len(s)-1)
		if l == 0 {
			break
		}
		i += l
		n++
	}
	return n
}

// UTFSym returns the first character of s and its byte length.
func UTFSym(s string) (string, int) {
	if s == "" {
		return "", 0
	}
	l := 1
	if s[0]&0x80 != 0 {
		for l < len(s) && isCont(s[l]) {
			l++
		}
	}
	return s[:l], l
}
