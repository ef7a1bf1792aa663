package mode

import "github.com/dshills/mote/internal/buffer"

// position is a line/column pair in buffer coordinates. Columns are byte
// offsets and may sit one past the end of a line.
type position struct {
	line int
	col  int
}

// isWordByte reports whether b belongs to the word character class used
// by the small word motions: ASCII alphanumerics and underscore.
func isWordByte(b byte) bool {
	return b == '_' ||
		b >= '0' && b <= '9' ||
		b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z'
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isBlankLine(line string) bool {
	for i := 0; i < len(line); i++ {
		if !isSpaceByte(line[i]) {
			return false
		}
	}
	return true
}

// clampPosition pulls pos back inside the buffer: the line into
// [0, LineCount) and the column into [0, len(line)].
func clampPosition(buf *buffer.Buffer, pos position) position {
	if last := buf.LineCount() - 1; pos.line > last {
		pos.line = last
	}
	if max := len(buf.Line(pos.line)); pos.col > max {
		pos.col = max
	}
	return pos
}

// nextWordStart scans forward to the start of the next word segment. A
// segment is a maximal run of same-class non-space bytes; the scanner
// consumes the segment under the cursor, then skips whitespace, and stops
// at the first class change. Consumption restarts after whitespace and
// after a line wrap, so on plain space-separated text the scan runs to
// the end of the line. At the end of the buffer it lands one past the
// last character.
func nextWordStart(buf *buffer.Buffer, pos position) position {
	pos = clampPosition(buf, pos)
	consumed := false

	for pos.line < buf.LineCount() {
		line := buf.Line(pos.line)
		if pos.col >= len(line) {
			if pos.line+1 >= buf.LineCount() {
				return position{pos.line, len(line)}
			}
			pos.line++
			pos.col = 0
			consumed = false
			continue
		}

		ch := line[pos.col]
		if isSpaceByte(ch) {
			consumed = false
			pos.col++
			continue
		}

		if !consumed {
			initialWord := isWordByte(ch)
			consumed = true
			for pos.col < len(line) {
				next := line[pos.col]
				if isSpaceByte(next) || isWordByte(next) != initialWord {
					break
				}
				pos.col++
			}
			continue
		}

		return pos
	}

	last := buf.LineCount() - 1
	return position{last, len(buf.Line(last))}
}

// nextBigWordStart is nextWordStart with a single character class: any
// run of non-space bytes is one WORD.
func nextBigWordStart(buf *buffer.Buffer, pos position) position {
	pos = clampPosition(buf, pos)
	consumed := false

	for pos.line < buf.LineCount() {
		line := buf.Line(pos.line)
		if pos.col >= len(line) {
			if pos.line+1 >= buf.LineCount() {
				return position{pos.line, len(line)}
			}
			pos.line++
			pos.col = 0
			consumed = false
			continue
		}

		if isSpaceByte(line[pos.col]) {
			consumed = false
			pos.col++
			continue
		}

		if !consumed {
			consumed = true
			for pos.col < len(line) && !isSpaceByte(line[pos.col]) {
				pos.col++
			}
			continue
		}

		return pos
	}

	last := buf.LineCount() - 1
	return position{last, len(buf.Line(last))}
}

// previousWordStart scans backward to the start of the word segment at or
// before the cursor, wrapping across lines. It never moves past the
// buffer start.
func previousWordStart(buf *buffer.Buffer, pos position) position {
	pos = clampPosition(buf, pos)

	retreat := func() bool {
		if pos.line == 0 {
			pos.col = 0
			return false
		}
		pos.line--
		pos.col = len(buf.Line(pos.line))
		return true
	}

	if pos.col > 0 {
		pos.col--
	} else if !retreat() {
		return position{}
	}

	for {
		line := buf.Line(pos.line)
		if len(line) == 0 {
			if !retreat() {
				return position{}
			}
			continue
		}

		if pos.col >= len(line) {
			pos.col = len(line) - 1
		}

		if isSpaceByte(line[pos.col]) {
			if pos.col == 0 {
				if !retreat() {
					return position{}
				}
			} else {
				pos.col--
			}
			continue
		}

		currentWord := isWordByte(line[pos.col])
		for pos.col > 0 {
			prev := line[pos.col-1]
			if isSpaceByte(prev) || isWordByte(prev) != currentWord {
				break
			}
			pos.col--
		}
		return pos
	}
}

func previousBigWordStart(buf *buffer.Buffer, pos position) position {
	pos = clampPosition(buf, pos)

	retreat := func() bool {
		if pos.line == 0 {
			pos.col = 0
			return false
		}
		pos.line--
		pos.col = len(buf.Line(pos.line))
		return true
	}

	if pos.col > 0 {
		pos.col--
	} else if !retreat() {
		return position{}
	}

	for {
		line := buf.Line(pos.line)
		if len(line) == 0 {
			if !retreat() {
				return position{}
			}
			continue
		}

		if pos.col >= len(line) {
			pos.col = len(line) - 1
		}

		if isSpaceByte(line[pos.col]) {
			if pos.col == 0 {
				if !retreat() {
					return position{}
				}
			} else {
				pos.col--
			}
			continue
		}

		for pos.col > 0 && !isSpaceByte(line[pos.col-1]) {
			pos.col--
		}
		return pos
	}
}

// wordEndInclusive returns the last byte of the word segment at or after
// the cursor. The result is inclusive; callers add one for a half-open
// span end.
func wordEndInclusive(buf *buffer.Buffer, pos position) position {
	pos = clampPosition(buf, pos)

	for pos.line < buf.LineCount() {
		line := buf.Line(pos.line)
		if pos.col >= len(line) {
			if pos.line+1 >= buf.LineCount() {
				return position{pos.line, len(line)}
			}
			pos.line++
			pos.col = 0
			continue
		}

		ch := line[pos.col]
		if isSpaceByte(ch) {
			pos.col++
			continue
		}

		initialWord := isWordByte(ch)
		probe := pos.col
		for probe < len(line) {
			b := line[probe]
			if isSpaceByte(b) || isWordByte(b) != initialWord {
				break
			}
			probe++
		}
		return position{pos.line, probe - 1}
	}

	last := buf.LineCount() - 1
	return position{last, len(buf.Line(last))}
}

func bigWordEndInclusive(buf *buffer.Buffer, pos position) position {
	pos = clampPosition(buf, pos)

	for pos.line < buf.LineCount() {
		line := buf.Line(pos.line)
		if pos.col >= len(line) {
			if pos.line+1 >= buf.LineCount() {
				return position{pos.line, len(line)}
			}
			pos.line++
			pos.col = 0
			continue
		}

		if isSpaceByte(line[pos.col]) {
			pos.col++
			continue
		}

		probe := pos.col
		for probe < len(line) && !isSpaceByte(line[probe]) {
			probe++
		}
		return position{pos.line, probe - 1}
	}

	last := buf.LineCount() - 1
	return position{last, len(buf.Line(last))}
}

func firstNonBlankColumn(line string) int {
	for i := 0; i < len(line); i++ {
		if !isSpaceByte(line[i]) {
			return i
		}
	}
	return 0
}

func firstNonBlankPosition(buf *buffer.Buffer, line int) position {
	if last := buf.LineCount() - 1; line > last {
		line = last
	}
	return position{line, firstNonBlankColumn(buf.Line(line))}
}

func lineEndPosition(buf *buffer.Buffer, line int) position {
	if last := buf.LineCount() - 1; line > last {
		line = last
	}
	return position{line, len(buf.Line(line))}
}

// nextParagraphBoundary advances count paragraphs forward. The boundary
// is detected after two consecutive non-blank lines; the result lands on
// the first non-blank column of the following paragraph, or one past the
// last character of the buffer when no boundary remains.
func nextParagraphBoundary(buf *buffer.Buffer, pos position, count int) position {
	pos = clampPosition(buf, pos)
	if count < 1 {
		count = 1
	}

	for step := 0; step < count; step++ {
		seenNonBlank := false
		for ; pos.line < buf.LineCount(); pos.line++ {
			line := buf.Line(pos.line)
			if isBlankLine(line) {
				seenNonBlank = false
				continue
			}
			if !seenNonBlank {
				seenNonBlank = true
				continue
			}

			probe := pos.line
			for ; probe < buf.LineCount(); probe++ {
				if isBlankLine(buf.Line(probe)) {
					break
				}
			}
			pos.line = probe
			break
		}

		if pos.line >= buf.LineCount() {
			pos.line = buf.LineCount() - 1
			pos.col = len(buf.Line(pos.line))
			return pos
		}

		for ; pos.line < buf.LineCount(); pos.line++ {
			if !isBlankLine(buf.Line(pos.line)) {
				break
			}
		}
	}

	if pos.line >= buf.LineCount() {
		pos.line = buf.LineCount() - 1
		pos.col = len(buf.Line(pos.line))
		return pos
	}

	pos.col = firstNonBlankColumn(buf.Line(pos.line))
	return pos
}

// previousParagraphBoundary is the backward counterpart of
// nextParagraphBoundary. It lands on the first non-blank column of the
// paragraph above, or the buffer start.
func previousParagraphBoundary(buf *buffer.Buffer, pos position, count int) position {
	pos = clampPosition(buf, pos)
	if count < 1 {
		count = 1
	}

	retreat := func() bool {
		if pos.line == 0 {
			pos.col = 0
			return false
		}
		pos.line--
		pos.col = 0
		return true
	}

	for step := 0; step < count; step++ {
		seenNonBlank := false

		for {
			line := buf.Line(pos.line)
			if isBlankLine(line) {
				if !retreat() {
					return position{}
				}
				seenNonBlank = false
				continue
			}

			if !seenNonBlank {
				seenNonBlank = true
				if !retreat() {
					return position{}
				}
				continue
			}

			break
		}

		pos.line++
		for pos.line < buf.LineCount() && isBlankLine(buf.Line(pos.line)) {
			pos.line++
		}
	}

	if pos.line >= buf.LineCount() {
		pos.line = buf.LineCount() - 1
		pos.col = len(buf.Line(pos.line))
		return pos
	}

	pos.col = firstNonBlankColumn(buf.Line(pos.line))
	return pos
}
