/*
 * lc3vm - In-memory console fake, for tests
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

// Fake is a goroutine-free Console for unit tests. Pending input is
// queued ahead of time with Feed; output is captured in Output.
type Fake struct {
	pending []byte
	Output  []byte

	RawEntered  int
	RawRestored int
	Interrupt   func()
}

// NewFake builds a Fake pre-loaded with the given input bytes.
func NewFake(input ...byte) *Fake {
	return &Fake{pending: append([]byte(nil), input...)}
}

// Feed appends more bytes for future KeyPoll/KeyRead calls.
func (f *Fake) Feed(b ...byte) {
	f.pending = append(f.pending, b...)
}

// KeyPoll implements Console.
func (f *Fake) KeyPoll() bool {
	return len(f.pending) > 0
}

// KeyRead implements Console. It panics if called with nothing
// pending, since the real adapter would simply block forever and a
// test hanging silently is worse.
func (f *Fake) KeyRead() byte {
	if len(f.pending) == 0 {
		panic("console.Fake: KeyRead called with no pending input")
	}
	b := f.pending[0]
	f.pending = f.pending[1:]
	return b
}

// WriteByte implements Console.
func (f *Fake) WriteByte(b byte) {
	f.Output = append(f.Output, b)
}

// Flush implements Console. Output is unbuffered, so this is a no-op.
func (f *Fake) Flush() {}

// EnterRawMode implements Console.
func (f *Fake) EnterRawMode() (func(), error) {
	f.RawEntered++
	return func() { f.RawRestored++ }, nil
}

// InstallInterruptHandler implements Console.
func (f *Fake) InstallInterruptHandler(fn func()) {
	f.Interrupt = fn
}

var _ Console = (*Fake)(nil)
