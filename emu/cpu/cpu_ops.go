/*
 * lc3vm - LC-3 instruction execution
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

// All address arithmetic below is modulo 2^16 via plain uint16
// overflow; Go defines unsigned overflow, so no explicit wrapping
// operator is needed.

// ADD: register or immediate mode, updates COND.
func (c *CPU) opADD(instr uint16) error {
	d := dr(instr)
	if bit5(instr) {
		c.Reg[d] = c.Reg[sr1(instr)] + imm5(instr)
	} else {
		c.Reg[d] = c.Reg[sr1(instr)] + c.Reg[sr2(instr)]
	}
	c.setCC(c.Reg[d])
	return nil
}

// AND: register or immediate mode, updates COND.
func (c *CPU) opAND(instr uint16) error {
	d := dr(instr)
	if bit5(instr) {
		c.Reg[d] = c.Reg[sr1(instr)] & imm5(instr)
	} else {
		c.Reg[d] = c.Reg[sr1(instr)] & c.Reg[sr2(instr)]
	}
	c.setCC(c.Reg[d])
	return nil
}

// NOT: bitwise complement, updates COND.
func (c *CPU) opNOT(instr uint16) error {
	d := dr(instr)
	c.Reg[d] = ^c.Reg[sr1(instr)]
	c.setCC(c.Reg[d])
	return nil
}

// BR: conditional branch on the COND bits named in the instruction.
// COND is unchanged; nzp == 0 is a no-op, nzp == 0x7 is unconditional.
func (c *CPU) opBR(instr uint16) error {
	if nzp(instr)&c.Cond != 0 {
		c.PC += pcOffset9(instr)
	}
	return nil
}

// JMP: PC = R[BaseR]. COND unchanged. BaseR == 7 is the RET idiom.
func (c *CPU) opJMP(instr uint16) error {
	c.PC = c.Reg[baseR(instr)]
	return nil
}

// JSR/JSRR: R7 = PC, then either a PC-relative or register-indirect
// jump depending on bit 11. COND unchanged.
func (c *CPU) opJSR(instr uint16) error {
	c.Reg[7] = c.PC
	if bit11(instr) {
		c.PC += pcOffset11(instr)
	} else {
		c.PC = c.Reg[baseR(instr)]
	}
	return nil
}

// LD: PC-relative load, updates COND.
func (c *CPU) opLD(instr uint16) error {
	d := dr(instr)
	c.Reg[d] = c.Mem.Read(c.PC + pcOffset9(instr))
	c.setCC(c.Reg[d])
	return nil
}

// LDI: PC-relative indirect load, updates COND.
func (c *CPU) opLDI(instr uint16) error {
	d := dr(instr)
	ptr := c.Mem.Read(c.PC + pcOffset9(instr))
	c.Reg[d] = c.Mem.Read(ptr)
	c.setCC(c.Reg[d])
	return nil
}

// LDR: base+offset load, updates COND.
func (c *CPU) opLDR(instr uint16) error {
	d := dr(instr)
	c.Reg[d] = c.Mem.Read(c.Reg[baseR(instr)] + offset6(instr))
	c.setCC(c.Reg[d])
	return nil
}

// LEA: load effective address, updates COND.
func (c *CPU) opLEA(instr uint16) error {
	d := dr(instr)
	c.Reg[d] = c.PC + pcOffset9(instr)
	c.setCC(c.Reg[d])
	return nil
}

// ST: PC-relative store. COND unchanged.
func (c *CPU) opST(instr uint16) error {
	c.Mem.Write(c.PC+pcOffset9(instr), c.Reg[sr(instr)])
	return nil
}

// STI: PC-relative indirect store. COND unchanged.
func (c *CPU) opSTI(instr uint16) error {
	ptr := c.Mem.Read(c.PC + pcOffset9(instr))
	c.Mem.Write(ptr, c.Reg[sr(instr)])
	return nil
}

// STR: base+offset store. COND unchanged.
func (c *CPU) opSTR(instr uint16) error {
	c.Mem.Write(c.Reg[baseR(instr)]+offset6(instr), c.Reg[sr(instr)])
	return nil
}

// opReserved handles RTI (1000) and the reserved opcode (1101): both
// are fatal, since this core implements neither supervisor mode nor
// interrupt return.
func (c *CPU) opReserved(_ uint16) error {
	c.running = false
	return ErrReservedOpcode
}
