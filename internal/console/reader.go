package console

import (
	"bufio"
	"io"
	"sync"

	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/muesli/cancelreader"
)

// lineBuffer bounds how many unread lines a reader holds before it stops
// reading from the source.
const lineBuffer = 64

// reader is the background line reader of one Running period. begin and end
// may race; mu makes begin after end a no-op.
type reader struct {
	mu      sync.Mutex
	started bool
	stopped bool
	cancel  cancelreader.CancelReader

	lines chan string   // closed on end of stream
	ended chan struct{} // closed by end
	exited chan struct{} // closed when the goroutine returns

	logger *logger.Logger
}

func newReader(log *logger.Logger) *reader {
	return &reader{
		lines:  make(chan string, lineBuffer),
		ended:  make(chan struct{}),
		exited: make(chan struct{}),
		logger: log,
	}
}

// begin starts the reading goroutine over src.
func (r *reader) begin(src io.Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started || r.stopped {
		return
	}
	r.started = true

	cr, err := cancelreader.NewReader(src)
	if err != nil {
		// not pollable (regular file, some pipes): reads can't be interrupted
		r.logger.Debug().Err(err).Msg("console source is not cancelable")
		cr = &plainReader{Reader: src}
	}
	r.cancel = cr

	go r.read(cr)
}

// end interrupts the reader. Lines already queued are discarded with it.
func (r *reader) end() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.stopped = true
	close(r.ended)
	if r.cancel != nil {
		r.cancel.Cancel()
	}
}

// alive reports whether the reading goroutine is running.
func (r *reader) alive() bool {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return false
	}

	select {
	case <-r.exited:
		return false
	default:
		return true
	}
}

func (r *reader) read(cr cancelreader.CancelReader) {
	defer close(r.exited)
	defer cr.Close()

	scanner := bufio.NewScanner(cr)
	for scanner.Scan() {
		select {
		case r.lines <- scanner.Text():
		case <-r.ended:
			return
		}
	}

	select {
	case <-r.ended:
		// interrupted, not end of stream
		return
	default:
	}
	if err := scanner.Err(); err != nil {
		r.logger.Error().Err(err).Msg("console read failed")
	}
	close(r.lines)
}

// plainReader is a CancelReader whose Cancel cannot interrupt a blocked
// Read. A read that returns after Cancel is dropped.
type plainReader struct {
	io.Reader

	mu       sync.Mutex
	canceled bool
}

func (p *plainReader) Read(b []byte) (int, error) {
	n, err := p.Reader.Read(b)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceled {
		return 0, cancelreader.ErrCanceled
	}
	return n, err
}

func (p *plainReader) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.canceled = true
	return false
}

func (p *plainReader) Close() error {
	return nil
}
