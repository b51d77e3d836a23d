package sse

import (
	"bufio"
	"io"
	"strings"
)

// Sentinel line some servers send to close the stream explicitly; plain
// EOF is treated the same way.
const doneSentinel = "[DONE]"

/*
Scanner reads a stream of server-sent event records from an HTTP response
body.  Each record is one or more `data:` lines terminated by a blank line;
the stream ends at the [DONE] sentinel or EOF.

Usage follows the pull shape of bufio.Scanner:

	sc := sse.NewScanner(body)
	for sc.Next() {
	    handle(sc.Data())
	}
	if err := sc.Err(); err != nil { ... }
*/
type Scanner struct {
	reader *bufio.Reader
	closer io.Closer
	data   []byte
	err    error
	done   bool
}

func NewScanner(body io.ReadCloser) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(body),
		closer: body,
	}
}

// Next advances to the next event record.  It returns false at end of
// stream or on error; Err distinguishes the two.
func (sc *Scanner) Next() bool {
	if sc.done {
		return false
	}

	var eventData strings.Builder
	inEvent := false

	for {
		line, err := sc.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// A partial event at EOF still counts.
				if inEvent && eventData.Len() > 0 {
					sc.data = []byte(eventData.String())
					sc.done = true
					return true
				}
			} else {
				sc.err = err
			}
			sc.done = true
			return false
		}

		line = strings.TrimRight(line, "\n\r")

		// Empty line marks the end of an event.
		if line == "" {
			if inEvent {
				sc.data = []byte(eventData.String())
				return true
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			// Comment line, ignore.
			continue
		}

		if strings.HasPrefix(line, "data:") {
			dataLine := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")

			if dataLine == doneSentinel {
				sc.done = true
				return false
			}

			inEvent = true
			if eventData.Len() > 0 {
				eventData.WriteString("\n")
			}
			eventData.WriteString(dataLine)
		}
	}
}

// Data returns the payload of the current event.  Valid until the next
// call to Next.
func (sc *Scanner) Data() []byte {
	return sc.data
}

func (sc *Scanner) Err() error {
	return sc.err
}

// Close releases the underlying body.  Safe to call at any point; a
// subsequent Next returns false.
func (sc *Scanner) Close() error {
	sc.done = true
	if sc.closer != nil {
		return sc.closer.Close()
	}
	return nil
}
