package ingestion

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single edge-list line.
const maxLineBytes = 1 << 20

// EdgeList holds parallel source/target sequences read from an edge list.
type EdgeList struct {
	// Sources holds the first field of every accepted line.
	Sources []int

	// Targets holds the second field of every accepted line.
	Targets []int

	// Lines is the number of lines read, accepted or not.
	Lines int

	// Skipped is the number of malformed lines dropped.
	Skipped int
}

// Len returns the number of accepted edges.
func (l *EdgeList) Len() int {
	return len(l.Sources)
}

// ReadError reports a failure to open or read an edge-list file.
// It is the only error ReadEdgeList returns.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading edge list %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadEdgeList reads the edge list at path.
func ReadEdgeList(path string) (*EdgeList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	list, err := ParseEdgeList(f)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return list, nil
}

// ParseEdgeList parses one "source,target" pair per line.
//
// Lines that do not split into exactly two comma-separated fields, or whose
// fields are not non-negative integers, are skipped and counted. Surrounding
// whitespace around each field is ignored. There is no header row; a header
// line is simply skipped as malformed. Lines longer than maxLineBytes are
// skipped too. Only errors from r itself are returned.
func ParseEdgeList(r io.Reader) (*EdgeList, error) {
	list := &EdgeList{}

	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, tooLong, err := readLine(br)
		if len(line) > 0 || tooLong {
			list.Lines++
			source, target, ok := 0, 0, false
			if !tooLong {
				source, target, ok = parseEdgeLine(string(bytes.TrimSuffix(line, []byte("\n"))))
			}
			if ok {
				list.Sources = append(list.Sources, source)
				list.Targets = append(list.Targets, target)
			} else {
				list.Skipped++
			}
		}
		if errors.Is(err, io.EOF) {
			return list, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// readLine returns the next line including its newline. A line longer
// than maxLineBytes is consumed to its end and reported with tooLong set and
// no content.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, readErr := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes+1 {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(readErr, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, readErr
	}
}

func parseEdgeLine(line string) (int, int, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	source, ok := parseNodeID(parts[0])
	if !ok {
		return 0, 0, false
	}
	target, ok := parseNodeID(parts[1])
	if !ok {
		return 0, 0, false
	}
	return source, target, true
}

func parseNodeID(field string) (int, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(field), 10, strconv.IntSize-1)
	if err != nil {
		return 0, false
	}
	return int(id), true
}
