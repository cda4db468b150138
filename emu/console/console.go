/*
 * lc3vm - Host console adapter
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

// Package console defines the host adapter capability bundle the CPU
// core consumes for keyboard and byte I/O, and the interrupt hook the
// signal handler installs through it.
package console

// Console is the small capability bundle the core is parameterized
// over. A real terminal-backed implementation lives in terminal.go; a
// goroutine-free fake for unit tests lives in fake.go.
type Console interface {
	// KeyPoll reports, without blocking, whether a byte is available.
	KeyPoll() bool
	// KeyRead reads one byte. It may block; callers only invoke it
	// after KeyPoll has reported true, or when a blocking read (GETC,
	// IN) is explicitly wanted.
	KeyRead() byte
	// WriteByte buffers one output byte.
	WriteByte(b byte)
	// Flush flushes buffered output.
	Flush()
	// EnterRawMode disables line buffering and echo, returning a
	// restore function. The returned restore function must be safe to
	// call more than once.
	EnterRawMode() (restore func(), err error)
	// InstallInterruptHandler arranges for fn to run when the host
	// delivers an interrupt (e.g. SIGINT). fn is responsible for
	// restoring the terminal before the process exits.
	InstallInterruptHandler(fn func())
}
