package vocab

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

const (
	commentPrefix = "#"
	maxLineSize   = 16 << 20
)

// Stats counts what Parse saw.
type Stats struct {
	Lines      int
	Comments   int
	Blank      int
	Entries    int
	Duplicates int

	// Extra counts lines with more than two tokens.
	Extra int
}

// Parse reads one entry per line: WORD [CODE [ignored...]]. Lines starting
// with '#' are comments; blank lines are skipped.
func Parse(r io.Reader, policy Policy) (*Vocabulary, Stats, error) {
	v := New(policy)
	var st Stats

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	s.Split(scanLines)
	for s.Scan() {
		line := s.Text()
		st.Lines++

		if strings.HasPrefix(line, commentPrefix) {
			st.Comments++
			continue
		}

		fields := strings.Fields(line)
		var word, code string
		switch len(fields) {
		case 0:
			st.Blank++
			continue
		case 1:
			word = fields[0]
		default:
			word, code = fields[0], fields[1]
			if len(fields) > 2 {
				st.Extra++
			}
		}

		st.Entries++
		if v.Add(word, code) {
			st.Duplicates++
		}
	}
	if err := s.Err(); err != nil {
		return New(policy), st, fmt.Errorf("scanning line %d: %w", st.Lines+1, err)
	}
	return v, st, nil
}

// scanLines is bufio.ScanLines that also ends a line on a bare '\r'.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r' at the end of the buffer may be the first half of "\r\n".
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
