/*
 * lc3vm - LC-3 opcode and register definitions
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

package cpu

import "errors"

// The sixteen top-nibble opcodes. Values match the bit pattern in
// bits 15..12 of the instruction word.
const (
	OpBR   uint16 = 0x0
	OpADD  uint16 = 0x1
	OpLD   uint16 = 0x2
	OpST   uint16 = 0x3
	OpJSR  uint16 = 0x4
	OpAND  uint16 = 0x5
	OpLDR  uint16 = 0x6
	OpSTR  uint16 = 0x7
	OpRTI  uint16 = 0x8 // reserved: fatal
	OpNOT  uint16 = 0x9
	OpLDI  uint16 = 0xA
	OpSTI  uint16 = 0xB
	OpJMP  uint16 = 0xC
	OpRES  uint16 = 0xD // reserved: fatal
	OpLEA  uint16 = 0xE
	OpTRAP uint16 = 0xF
)

// Trap service codes, the low 8 bits of a TRAP instruction.
const (
	TrapGETC  uint16 = 0x20
	TrapOUT   uint16 = 0x21
	TrapPUTS  uint16 = 0x22
	TrapIN    uint16 = 0x23
	TrapPUTSP uint16 = 0x24
	TrapHALT  uint16 = 0x25
)

// Condition flag bits, encoded at bits 2, 1, 0 of COND.
const (
	FlagNeg  uint16 = 1 << 2
	FlagZero uint16 = 1 << 1
	FlagPos  uint16 = 1 << 0
)

// ResetPC is the default program counter at reset, matching the
// reference loader's convention of loading programs at 0x3000.
const ResetPC uint16 = 0x3000

// ErrHalted is returned by Run/Step once TRAP HALT has cleared the
// running flag.
var ErrHalted = errors.New("cpu: halted")

// ErrReservedOpcode is returned when RTI (1000) or the reserved
// opcode (1101) is fetched. Both are fatal per the design: this core
// does not implement supervisor mode or interrupt return.
var ErrReservedOpcode = errors.New("cpu: reserved opcode executed")

// ErrInterrupted is returned by Run when the host cancels the
// run context (e.g. SIGINT/SIGTERM delivered to the process).
var ErrInterrupted = errors.New("cpu: interrupted")

// sext sign-extends the low n bits of x to a full 16-bit two's
// complement value. Bit n-1 of x is the sign bit being replicated.
func sext(x uint16, n uint) uint16 {
	if (x>>(n-1))&1 != 0 {
		x |= 0xFFFF << n
	}
	return x
}

// Bit-field extraction helpers, named after the spec's field names.
// Bits are numbered 15 (MSB) down to 0.

func opcode(instr uint16) uint16 { return instr >> 12 }
func dr(instr uint16) uint16     { return (instr >> 9) & 0x7 }
func sr(instr uint16) uint16     { return (instr >> 9) & 0x7 } // ST/STI/STR source register shares DR's bit position
func sr1(instr uint16) uint16    { return (instr >> 6) & 0x7 }
func sr2(instr uint16) uint16    { return instr & 0x7 }
func baseR(instr uint16) uint16  { return (instr >> 6) & 0x7 }
func bit5(instr uint16) bool     { return (instr>>5)&0x1 != 0 }
func bit11(instr uint16) bool    { return (instr>>11)&0x1 != 0 }
func imm5(instr uint16) uint16   { return sext(instr&0x1F, 5) }
func offset6(instr uint16) uint16 {
	return sext(instr&0x3F, 6)
}
func pcOffset9(instr uint16) uint16 {
	return sext(instr&0x1FF, 9)
}
func pcOffset11(instr uint16) uint16 {
	return sext(instr&0x7FF, 11)
}
func nzp(instr uint16) uint16     { return (instr >> 9) & 0x7 }
func trapVect8(instr uint16) uint16 { return instr & 0xFF }
