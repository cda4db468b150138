/*
 * lc3vm - CPU fetch-decode-execute tests
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

import (
	"context"
	"errors"
	"testing"

	"github.com/rcornwell/lc3vm/emu/console"
	"github.com/rcornwell/lc3vm/emu/memory"
)

func newTestCPU() (*CPU, *console.Fake) {
	fake := console.NewFake()
	mem := memory.New(fake.KeyPoll, func() byte { return fake.KeyRead() })
	return New(mem, fake), fake
}

func TestResetClearsRegistersAndSetsCond(t *testing.T) {
	c, _ := newTestCPU()
	c.Reg[3] = 0x1234
	c.Reset(0x4000)

	for i, r := range c.Reg {
		if r != 0 {
			t.Errorf("Reg[%d] = %#x after Reset, want 0", i, r)
		}
	}
	if c.PC != 0x4000 {
		t.Errorf("PC = %#x after Reset, want 0x4000", c.PC)
	}
	if c.Cond != FlagZero {
		t.Errorf("Cond = %#x after Reset, want FlagZero", c.Cond)
	}
}

func TestOpADDRegisterMode(t *testing.T) {
	c, _ := newTestCPU()
	c.Reg[1] = 5
	c.Reg[2] = 7
	// ADD R0, R1, R2: 0001 000 001 000 010
	instr := uint16(0x1<<12) | dr3(0) | (1 << 6) | 2
	if err := c.opADD(instr); err != nil {
		t.Fatalf("opADD returned error: %v", err)
	}
	if c.Reg[0] != 12 {
		t.Errorf("R0 = %d, want 12", c.Reg[0])
	}
	if c.Cond != FlagPos {
		t.Errorf("Cond = %#x, want FlagPos", c.Cond)
	}
}

func TestOpADDImmediateNegativeResult(t *testing.T) {
	c, _ := newTestCPU()
	c.Reg[1] = 0
	// ADD R0, R1, #-1: immediate mode, imm5 = 0x1F (-1)
	instr := uint16(0x1<<12) | dr3(0) | (1 << 6) | (1 << 5) | 0x1F
	if err := c.opADD(instr); err != nil {
		t.Fatalf("opADD returned error: %v", err)
	}
	if c.Reg[0] != 0xFFFF {
		t.Errorf("R0 = %#x, want 0xFFFF", c.Reg[0])
	}
	if c.Cond != FlagNeg {
		t.Errorf("Cond = %#x, want FlagNeg", c.Cond)
	}
}

func TestOpANDImmediateZero(t *testing.T) {
	c, _ := newTestCPU()
	c.Reg[1] = 0xFF
	// AND R0, R1, #0
	instr := uint16(0x5<<12) | dr3(0) | (1 << 6) | (1 << 5) | 0
	if err := c.opAND(instr); err != nil {
		t.Fatalf("opAND returned error: %v", err)
	}
	if c.Reg[0] != 0 {
		t.Errorf("R0 = %#x, want 0", c.Reg[0])
	}
	if c.Cond != FlagZero {
		t.Errorf("Cond = %#x, want FlagZero", c.Cond)
	}
}

func TestOpNOT(t *testing.T) {
	c, _ := newTestCPU()
	c.Reg[1] = 0x00FF
	instr := uint16(0x9<<12) | dr3(0) | (1 << 6) | 0x3F
	if err := c.opNOT(instr); err != nil {
		t.Fatalf("opNOT returned error: %v", err)
	}
	if c.Reg[0] != 0xFF00 {
		t.Errorf("R0 = %#x, want 0xFF00", c.Reg[0])
	}
}

func TestOpLEAAndCond(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x3000
	// LEA R0, #5
	instr := uint16(0xE<<12) | dr3(0) | 5
	if err := c.opLEA(instr); err != nil {
		t.Fatalf("opLEA returned error: %v", err)
	}
	if c.Reg[0] != 0x3005 {
		t.Errorf("R0 = %#x, want 0x3005", c.Reg[0])
	}
	if c.Cond != FlagPos {
		t.Errorf("Cond = %#x, want FlagPos", c.Cond)
	}
}

func TestOpBRTakenAndNotTaken(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x3000
	c.Cond = FlagZero

	// BRz #2, should branch
	instr := uint16(0x0<<12) | (uint16(FlagZero) << 9) | 2
	if err := c.opBR(instr); err != nil {
		t.Fatalf("opBR returned error: %v", err)
	}
	if c.PC != 0x3002 {
		t.Errorf("PC = %#x after taken branch, want 0x3002", c.PC)
	}

	c.PC = 0x3000
	// BRp #2, should not branch since Cond is Z
	instr = uint16(0x0<<12) | (uint16(FlagPos) << 9) | 2
	if err := c.opBR(instr); err != nil {
		t.Fatalf("opBR returned error: %v", err)
	}
	if c.PC != 0x3000 {
		t.Errorf("PC = %#x after non-taken branch, want unchanged 0x3000", c.PC)
	}
}

func TestOpSTIAndOpLDIRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x3000
	c.Reg[0] = 0x1234
	c.Mem.Write(0x3005, 0x4000) // pointer cell

	// STI R0, #5
	instr := uint16(0xB<<12) | dr3(0) | 5
	if err := c.opSTI(instr); err != nil {
		t.Fatalf("opSTI returned error: %v", err)
	}
	if got := c.Mem.Read(0x4000); got != 0x1234 {
		t.Fatalf("mem[0x4000] = %#x after STI, want 0x1234", got)
	}

	// LDI R1, #5
	instr = uint16(0xA<<12) | dr3(1) | 5
	if err := c.opLDI(instr); err != nil {
		t.Fatalf("opLDI returned error: %v", err)
	}
	if c.Reg[1] != 0x1234 {
		t.Errorf("R1 = %#x after LDI, want 0x1234", c.Reg[1])
	}
}

func TestOpJSRAndOpJMP(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x3000
	// JSR #0x100 (bit 11 set, PCoffset11 = 0x100)
	instr := uint16(0x4<<12) | (1 << 11) | 0x100
	if err := c.opJSR(instr); err != nil {
		t.Fatalf("opJSR returned error: %v", err)
	}
	if c.Reg[7] != 0x3000 {
		t.Errorf("R7 = %#x after JSR, want 0x3000", c.Reg[7])
	}
	if c.PC != 0x3100 {
		t.Errorf("PC = %#x after JSR, want 0x3100", c.PC)
	}

	// JMP R7 (RET idiom)
	instr = uint16(0xC<<12) | (7 << 6)
	if err := c.opJMP(instr); err != nil {
		t.Fatalf("opJMP returned error: %v", err)
	}
	if c.PC != 0x3000 {
		t.Errorf("PC = %#x after JMP R7, want 0x3000", c.PC)
	}
}

func TestOpReservedAbortsAndReportsError(t *testing.T) {
	c, _ := newTestCPU()
	err := c.opReserved(0)
	if !errors.Is(err, ErrReservedOpcode) {
		t.Fatalf("opReserved error = %v, want ErrReservedOpcode", err)
	}
	if c.running {
		t.Error("running flag still set after opReserved")
	}
}

func TestStepDispatchesReservedOpcodeViaRun(t *testing.T) {
	c, fake := newTestCPU()
	_ = fake
	c.PC = 0x3000
	c.Mem.Write(0x3000, uint16(OpRES)<<12)

	err := c.Run(context.Background())
	if !errors.Is(err, ErrReservedOpcode) {
		t.Fatalf("Run error = %v, want ErrReservedOpcode", err)
	}
}

func TestRunExecutesUntilHalt(t *testing.T) {
	c, fake := newTestCPU()
	_ = fake
	c.PC = 0x3000
	// LEA R0, #1 ; TRAP HALT
	c.Mem.Write(0x3000, uint16(0xE<<12)|dr3(0)|1)
	c.Mem.Write(0x3001, uint16(0xF<<12)|TrapHALT)

	err := c.Run(context.Background())
	if !errors.Is(err, ErrHalted) {
		t.Fatalf("Run error = %v, want ErrHalted", err)
	}
	if c.Reg[0] != 0x3002 {
		t.Errorf("R0 = %#x after LEA, want 0x3002", c.Reg[0])
	}
}

func TestRunHonoursContextCancellation(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x3000
	// BR #-1: infinite loop (branches to itself forever, Cond is Z at reset so BRz)
	c.Mem.Write(0x3000, uint16(0x0<<12)|(uint16(FlagZero)<<9)|0x1FF)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Run(ctx)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Run error = %v, want ErrInterrupted", err)
	}
}

func TestTrapGETCReadsAndSetsCond(t *testing.T) {
	c, fake := newTestCPU()
	fake.Feed('A')
	if err := c.trapGETC(0); err != nil {
		t.Fatalf("trapGETC returned error: %v", err)
	}
	if c.Reg[0] != uint16('A') {
		t.Errorf("R0 = %#x, want %#x", c.Reg[0], 'A')
	}
	if c.Cond != FlagPos {
		t.Errorf("Cond = %#x, want FlagPos", c.Cond)
	}
}

func TestTrapOUTWritesLowByte(t *testing.T) {
	c, fake := newTestCPU()
	c.Reg[0] = 0x1041 // 'A' in the low byte
	if err := c.trapOUT(0); err != nil {
		t.Fatalf("trapOUT returned error: %v", err)
	}
	if string(fake.Output) != "A" {
		t.Errorf("Output = %q, want %q", fake.Output, "A")
	}
}

func TestTrapPUTSWritesUntilZero(t *testing.T) {
	c, fake := newTestCPU()
	c.Reg[0] = 0x4000
	for i, ch := range []uint16{'h', 'i', 0} {
		c.Mem.Write(0x4000+uint16(i), ch)
	}
	if err := c.trapPUTS(0); err != nil {
		t.Fatalf("trapPUTS returned error: %v", err)
	}
	if string(fake.Output) != "hi" {
		t.Errorf("Output = %q, want %q", fake.Output, "hi")
	}
}

func TestTrapPUTSPPacksTwoBytesPerWord(t *testing.T) {
	c, fake := newTestCPU()
	c.Reg[0] = 0x4000
	c.Mem.Write(0x4000, uint16('h')|uint16('i')<<8)
	c.Mem.Write(0x4001, uint16('!'))
	c.Mem.Write(0x4002, 0)
	if err := c.trapPUTSP(0); err != nil {
		t.Fatalf("trapPUTSP returned error: %v", err)
	}
	if string(fake.Output) != "hi!" {
		t.Errorf("Output = %q, want %q", fake.Output, "hi!")
	}
}

func TestTrapHALTStopsRunningAndReportsError(t *testing.T) {
	c, fake := newTestCPU()
	err := c.trapHALT(0)
	if !errors.Is(err, ErrHalted) {
		t.Fatalf("trapHALT error = %v, want ErrHalted", err)
	}
	if c.running {
		t.Error("running flag still set after trapHALT")
	}
	if string(fake.Output) != "HALT\n" {
		t.Errorf("Output = %q, want %q", fake.Output, "HALT\n")
	}
}

func TestTrapINPromptsEchoesAndSetsCond(t *testing.T) {
	c, fake := newTestCPU()
	fake.Feed('y')
	if err := c.trapIN(0); err != nil {
		t.Fatalf("trapIN returned error: %v", err)
	}
	if c.Reg[0] != uint16('y') {
		t.Errorf("R0 = %#x, want %#x", c.Reg[0], 'y')
	}
	if c.Cond != FlagPos {
		t.Errorf("Cond = %#x, want FlagPos", c.Cond)
	}
	want := "Enter a character: y"
	if string(fake.Output) != want {
		t.Errorf("Output = %q, want %q", fake.Output, want)
	}
}

func TestUnhandledTrapCodeIsNoop(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x3000
	c.Mem.Write(0x3000, uint16(0xF<<12)|0x99)
	if err := c.Step(); err != nil {
		t.Fatalf("Step returned error for unhandled trap: %v", err)
	}
	if !c.running {
		t.Error("running flag cleared after unhandled trap code, want still running")
	}
}

// dr3 places a 3-bit register number into the DR field (bits 11..9),
// matching the bit layout used by dr/sr in cpudefs.go.
func dr3(r uint16) uint16 { return r << 9 }
