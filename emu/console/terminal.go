/*
 * lc3vm - Terminal-backed console adapter
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package console

import (
	"bufio"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/term"
)

// Terminal is the real, stdin/stdout-backed Console. The memory-mapped
// keyboard status register must never block the fetch-execute loop,
// so a single background goroutine owns stdin and feeds single bytes
// into a small buffered channel; KeyPoll only ever inspects that
// channel's length.
type Terminal struct {
	out *bufio.Writer

	keys   chan byte
	closed atomic.Bool

	rawMu    sync.Mutex
	rawState *term.State
}

// NewTerminal builds a Terminal adapter and starts its background
// stdin reader. After Close, the reader goroutine exits the next time
// its pending stdin read returns.
func NewTerminal() *Terminal {
	t := &Terminal{
		out:  bufio.NewWriter(os.Stdout),
		keys: make(chan byte, 32),
	}
	go t.readLoop()
	return t
}

func (t *Terminal) readLoop() {
	var b [1]byte
	for {
		n, err := os.Stdin.Read(b[:])
		if t.closed.Load() {
			return
		}
		if err != nil {
			return
		}
		if n > 0 {
			t.keys <- b[0]
		}
	}
}

// KeyPoll implements Console.
func (t *Terminal) KeyPoll() bool {
	return len(t.keys) > 0
}

// KeyRead implements Console. It blocks until a byte arrives if none
// is buffered.
func (t *Terminal) KeyRead() byte {
	return <-t.keys
}

// WriteByte implements Console.
func (t *Terminal) WriteByte(b byte) {
	_ = t.out.WriteByte(b)
}

// Flush implements Console.
func (t *Terminal) Flush() {
	_ = t.out.Flush()
}

// EnterRawMode implements Console. Safe to call once; the returned
// restore function is idempotent and safe to call from a signal
// handler.
func (t *Terminal) EnterRawMode() (func(), error) {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}, err
	}

	t.rawMu.Lock()
	t.rawState = state
	t.rawMu.Unlock()

	restore := func() {
		t.rawMu.Lock()
		defer t.rawMu.Unlock()
		if t.rawState == nil {
			return
		}
		_ = term.Restore(fd, t.rawState)
		t.rawState = nil
	}
	return restore, nil
}

// InstallInterruptHandler implements Console.
func (t *Terminal) InstallInterruptHandler(fn func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fn()
	}()
}

// Close marks the background stdin reader as stopped; the reader
// returns once its in-flight read completes. It does not restore the
// terminal; callers hold and invoke the restore function returned by
// EnterRawMode for that.
func (t *Terminal) Close() {
	t.closed.Store(true)
}

var _ Console = (*Terminal)(nil)
