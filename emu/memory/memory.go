/*
 * lc3vm - Low level memory
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

// Package memory implements the LC-3's flat 64Ki-word address space,
// including the two memory-mapped keyboard registers.
package memory

// Device register addresses. Reads of KBSR have the side effect of
// polling the host keyboard; all other addresses are plain storage.
const (
	KBSR uint16 = 0xFE00 // keyboard status: bit 15 set iff a key is ready
	KBDR uint16 = 0xFE02 // keyboard data: low 8 bits hold the last key read
)

const kbsrReady uint16 = 0x8000

// KeyPoll reports, without blocking, whether a key is available on the
// host. KeyRead consumes the available key; it is only ever called
// immediately after KeyPoll reports true.
type KeyPoll func() bool
type KeyRead func() byte

// Memory is the LC-3's 64Ki-word address space.
type Memory struct {
	mem     [65536]uint16
	keyPoll KeyPoll
	keyRead KeyRead
}

// New builds a Memory backed by the given non-blocking keyboard
// callbacks. If poll is nil, KBSR always reads as "no key pending"
// (useful for tests that never touch the console). If only read is
// nil, a pending key sets the ready bit and latches 0 into KBDR.
func New(poll KeyPoll, read KeyRead) *Memory {
	return &Memory{keyPoll: poll, keyRead: read}
}

// Read returns the word stored at addr. Reading KBSR polls the host
// for a pending key and, if one is ready, latches it into KBDR and
// sets the ready bit; otherwise the ready bit is cleared. No address
// can be out of range: the address space and the storage are
// coextensive.
func (m *Memory) Read(addr uint16) uint16 {
	if addr == KBSR {
		if m.keyPoll != nil && m.keyPoll() {
			var b byte
			if m.keyRead != nil {
				b = m.keyRead()
			}
			m.mem[KBDR] = uint16(b)
			m.mem[KBSR] = kbsrReady
		} else {
			m.mem[KBSR] = 0
		}
	}
	return m.mem[addr]
}

// Write stores value at addr. Writes to device registers have no
// special meaning in the core; they are left as plain memory.
func (m *Memory) Write(addr, value uint16) {
	m.mem[addr] = value
}
