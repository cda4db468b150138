/*
 * lc3vm - main CPU instruction fetch and execute
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

// Package cpu implements the LC-3 fetch-decode-execute cycle: the
// register file, the condition-flag discipline, the fourteen active
// opcodes and the six trap service routines.
package cpu

import (
	"context"

	"github.com/rcornwell/lc3vm/emu/console"
	"github.com/rcornwell/lc3vm/emu/memory"
)

// CPU holds the full machine state: the register file, the memory it
// executes against, and the host console its traps talk to.
type CPU struct {
	Reg  [8]uint16
	PC   uint16
	Cond uint16

	Mem     *memory.Memory
	Console console.Console

	running bool

	table [16]func(*CPU, uint16) error
	traps [256]func(*CPU, uint16) error
}

// New builds a CPU wired to mem and term, reset to its initial state.
func New(mem *memory.Memory, term console.Console) *CPU {
	c := &CPU{Mem: mem, Console: term}
	c.createTable()
	c.createTrapTable()
	c.Reset(ResetPC)
	return c
}

// Reset clears all registers, sets COND to Z, and sets PC to pc. The
// running flag is set so the next Run/Step call executes.
func (c *CPU) Reset(pc uint16) {
	for i := range c.Reg {
		c.Reg[i] = 0
	}
	c.PC = pc
	c.Cond = FlagZero
	c.running = true
}

// setCC recomputes COND from the signed value just written to Rd, per
// the register & flag discipline: exactly one of N, Z, P is set.
func (c *CPU) setCC(value uint16) {
	switch {
	case value == 0:
		c.Cond = FlagZero
	case value&0x8000 != 0:
		c.Cond = FlagNeg
	default:
		c.Cond = FlagPos
	}
}

// fetch reads the word at PC and advances PC by one, modulo 2^16.
func (c *CPU) fetch() uint16 {
	instr := c.Mem.Read(c.PC)
	c.PC++
	return instr
}

// Step executes exactly one instruction.
func (c *CPU) Step() error {
	instr := c.fetch()
	return c.table[opcode(instr)](c, instr)
}

// Run steps the CPU until TRAP HALT clears the running flag, a
// reserved opcode aborts execution, or ctx is cancelled. ctx is
// checked between instructions only; a single in-flight instruction
// always completes.
func (c *CPU) Run(ctx context.Context) error {
	for c.running {
		select {
		case <-ctx.Done():
			return ErrInterrupted
		default:
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return ErrHalted
}

// createTable builds the sixteen-entry opcode dispatch table, keyed
// by the top nibble of the instruction word. Reserved opcodes map to
// opReserved rather than a special-cased branch in the fetch loop.
func (c *CPU) createTable() {
	c.table = [16]func(*CPU, uint16) error{
		OpBR:   (*CPU).opBR,
		OpADD:  (*CPU).opADD,
		OpLD:   (*CPU).opLD,
		OpST:   (*CPU).opST,
		OpJSR:  (*CPU).opJSR,
		OpAND:  (*CPU).opAND,
		OpLDR:  (*CPU).opLDR,
		OpSTR:  (*CPU).opSTR,
		OpRTI:  (*CPU).opReserved,
		OpNOT:  (*CPU).opNOT,
		OpLDI:  (*CPU).opLDI,
		OpSTI:  (*CPU).opSTI,
		OpJMP:  (*CPU).opJMP,
		OpRES:  (*CPU).opReserved,
		OpLEA:  (*CPU).opLEA,
		OpTRAP: (*CPU).opTRAP,
	}
}
