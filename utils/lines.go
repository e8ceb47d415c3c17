package utils

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// EachLine calls fn for every line of r, with the line ending (\n or \r\n)
// removed and invalid UTF-8 sequences dropped. A line longer than
// maxLineSize is drained without being kept; fn receives it as an empty
// string with tooLong set.
func EachLine(r io.Reader, fn func(line string, tooLong bool)) error {
	br := bufio.NewReaderSize(r, 64*1024)

	var buf []byte
	started, tooLong := false, false
	for {
		chunk, err := br.ReadSlice('\n')
		if len(chunk) > 0 {
			started = true
			if !tooLong && len(buf)+len(chunk) > maxLineSize+1 {
				tooLong = true
				buf = buf[:0]
			}
			if !tooLong {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		if started {
			if tooLong {
				fn("", true)
			} else {
				line := strings.TrimSuffix(strings.TrimSuffix(string(buf), "\n"), "\r")
				fn(strings.ToValidUTF8(line, ""), false)
			}
		}
		if err != nil {
			return nil
		}
		buf = buf[:0]
		started, tooLong = false, false
	}
}
