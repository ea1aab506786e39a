package dash

import (
	"bufio"
	"io"

	"github.com/rileyhilliard/pipeplot/internal/extract"
	"github.com/rileyhilliard/pipeplot/internal/logger"
)

// inputEvent is one delivery from the reader goroutine: a batch of matches
// from one line, a terminal read error, or end of input.
type inputEvent struct {
	matches []extract.Match
	err     error
	eof     bool
}

// Reader pulls lines from the input stream as they arrive and runs them
// through the extractor. Extracted samples are handed to the model over a
// channel and committed to the store only at tick boundaries, so write
// synchronization stays bounded under bursty input.
type Reader struct {
	in     io.Reader
	sel    *extract.Selector
	log    logger.Logger
	events chan inputEvent
}

// NewReader creates a reader over the given stream with the resolved
// selector. Call Start to begin consuming.
func NewReader(in io.Reader, sel *extract.Selector, log logger.Logger) *Reader {
	if log == nil {
		log = logger.Noop()
	}
	return &Reader{
		in:     in,
		sel:    sel,
		log:    log,
		events: make(chan inputEvent, 64),
	}
}

// Events returns the channel the model polls for input.
func (r *Reader) Events() <-chan inputEvent {
	return r.events
}

// Start launches the reader goroutine. It runs until end of input or a
// read error, sends a final eof or error event, and closes the channel.
// A closed stdin is normal termination, not an error.
func (r *Reader) Start() {
	go func() {
		defer close(r.events)

		scanner := bufio.NewScanner(r.in)
		// Lines beyond the default 64K token limit are unusual but not
		// impossible for verbose pipes.
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lines := 0
		for scanner.Scan() {
			lines++
			matches := r.sel.Extract(scanner.Text())
			if len(matches) == 0 {
				// Zero matches on a line is a no-op.
				continue
			}
			r.events <- inputEvent{matches: matches}
		}

		if err := scanner.Err(); err != nil {
			r.log.Error("input stream failed after %d lines: %v", lines, err)
			r.events <- inputEvent{err: err}
			return
		}

		r.log.Info("input stream closed after %d lines", lines)
		r.events <- inputEvent{eof: true}
	}()
}
