/*
 * lc3vm - Image loader
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

// Package loader reads LC-3 binary images into memory.
package loader

import (
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/rcornwell/lc3vm/emu/memory"
)

// Load reads an LC-3 image from r and writes it into mem. The first
// big-endian word is the origin address; the remaining words are
// placed contiguously starting there. Loading stops at end of stream
// or when the next address would overflow the address space, in which
// case any remaining bytes are silently ignored. A truncated final
// word (a single trailing byte) is dropped.
//
// Load returns the origin and the number of words written.
func Load(r io.Reader, mem *memory.Memory) (origin uint16, words int, err error) {
	var originBuf [2]byte
	if _, err := io.ReadFull(r, originBuf[:]); err != nil {
		return 0, 0, err
	}
	origin = binary.BigEndian.Uint16(originBuf[:])

	addr := origin
	var buf [2]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return origin, words, err
		}
		mem.Write(addr, binary.BigEndian.Uint16(buf[:]))
		words++

		if addr == 0xFFFF {
			break
		}
		addr++
	}

	slog.Debug("loaded image", "origin", origin, "words", words)
	return origin, words, nil
}
