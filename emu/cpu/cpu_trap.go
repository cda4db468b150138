/*
 * lc3vm - LC-3 trap service routines
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

import "log/slog"

// opTRAP: R7 = PC, then dispatch on the low 8 bits of the instruction.
// Trap codes outside the six standard services are logged and treated
// as a no-op, per the design: their behavior is explicitly
// unspecified and no test vector exercises them.
func (c *CPU) opTRAP(instr uint16) error {
	c.Reg[7] = c.PC
	return c.traps[trapVect8(instr)](c, instr)
}

// createTrapTable builds the 256-entry trap dispatch table. Every
// entry not assigned a service routine below is trapNoop.
func (c *CPU) createTrapTable() {
	for i := range c.traps {
		c.traps[i] = (*CPU).trapNoop
	}
	c.traps[TrapGETC] = (*CPU).trapGETC
	c.traps[TrapOUT] = (*CPU).trapOUT
	c.traps[TrapPUTS] = (*CPU).trapPUTS
	c.traps[TrapIN] = (*CPU).trapIN
	c.traps[TrapPUTSP] = (*CPU).trapPUTSP
	c.traps[TrapHALT] = (*CPU).trapHALT
}

// trapGETC: blocking read of one character into R0, updates COND.
func (c *CPU) trapGETC(_ uint16) error { return c.doGETC() }

func (c *CPU) doGETC() error {
	for !c.Console.KeyPoll() {
	}
	c.Reg[0] = uint16(c.Console.KeyRead())
	c.setCC(c.Reg[0])
	return nil
}

// trapOUT: emit the low 8 bits of R0 as a byte and flush.
func (c *CPU) trapOUT(_ uint16) error {
	c.Console.WriteByte(byte(c.Reg[0]))
	c.Console.Flush()
	return nil
}

// trapPUTS: emit one character per word starting at mem[R0] until a
// zero word, then flush.
func (c *CPU) trapPUTS(_ uint16) error {
	addr := c.Reg[0]
	for {
		w := c.Mem.Read(addr)
		if w == 0 {
			break
		}
		c.Console.WriteByte(byte(w))
		addr++
	}
	c.Console.Flush()
	return nil
}

// trapIN: prompt, then read and echo one character into R0.
func (c *CPU) trapIN(_ uint16) error {
	const prompt = "Enter a character: "
	for i := 0; i < len(prompt); i++ {
		c.Console.WriteByte(prompt[i])
	}
	c.Console.Flush()

	if err := c.doGETC(); err != nil {
		return err
	}
	c.Console.WriteByte(byte(c.Reg[0]))
	c.Console.Flush()
	return nil
}

// trapPUTSP: emit two packed characters per word (low byte, then high
// byte if nonzero) starting at mem[R0] until a zero word, then flush.
func (c *CPU) trapPUTSP(_ uint16) error {
	addr := c.Reg[0]
	for {
		w := c.Mem.Read(addr)
		if w == 0 {
			break
		}
		lo := byte(w & 0xFF)
		c.Console.WriteByte(lo)
		hi := byte(w >> 8)
		if hi != 0 {
			c.Console.WriteByte(hi)
		}
		addr++
	}
	c.Console.Flush()
	return nil
}

// trapHALT: announce, clear the running flag, end the loop.
func (c *CPU) trapHALT(_ uint16) error {
	const msg = "HALT\n"
	for i := 0; i < len(msg); i++ {
		c.Console.WriteByte(msg[i])
	}
	c.Console.Flush()
	c.running = false
	return ErrHalted
}

// trapNoop handles any trap code outside the six standard services.
func (c *CPU) trapNoop(_ uint16) error {
	slog.Debug("unhandled trap code", "code", c.Mem.Read(c.PC-1)&0xFF)
	return nil
}
