package z80

var edTable [256]opcodeEntry

func ed(op byte, mnemonic string, cycles int, fn executor) {
	edTable[op] = opcodeEntry{info: OpcodeInfo{Mnemonic: mnemonic, Size: 2, Cycles: cycles, Family: ExtendedStandard}, exec: fn}
}

func edSize(op byte, mnemonic string, size, cycles int, fn executor) {
	edTable[op] = opcodeEntry{info: OpcodeInfo{Mnemonic: mnemonic, Size: size, Cycles: cycles, Family: ExtendedStandard}, exec: fn}
}

func edAlt(op byte, mnemonic string, cycles, alt int, fn executor) {
	edTable[op] = opcodeEntry{info: OpcodeInfo{Mnemonic: mnemonic, Size: 2, Cycles: cycles, AltCycles: alt, HasAlt: true, Family: ExtendedStandard}, exec: fn}
}

func init() {
	inRegs := map[byte]byte{0x40: 0, 0x48: 1, 0x50: 2, 0x58: 3, 0x60: 4, 0x68: 5, 0x78: 7}
	for opcode, reg := range inRegs {
		r := reg
		ed(opcode, "IN r,(C)", 12, func(c *CPU, ctx execCtx) ExecResult {
			value := c.in(c.BC())
			c.writeReg8Plain(r, value)
			c.updateInFlags(value)
			return resultNormal()
		})
	}
	ed(0x70, "IN (C)", 12, func(c *CPU, ctx execCtx) ExecResult {
		value := c.in(c.BC())
		c.updateInFlags(value)
		return resultNormal()
	})

	outRegs := map[byte]byte{0x41: 0, 0x49: 1, 0x51: 2, 0x59: 3, 0x61: 4, 0x69: 5, 0x79: 7}
	for opcode, reg := range outRegs {
		r := reg
		ed(opcode, "OUT (C),r", 12, func(c *CPU, ctx execCtx) ExecResult {
			c.out(c.BC(), c.readReg8Plain(r))
			return resultNormal()
		})
	}
	ed(0x71, "OUT (C),0", 12, func(c *CPU, ctx execCtx) ExecResult {
		c.out(c.BC(), 0)
		return resultNormal()
	})

	sbcPairs := map[byte]func(*CPU) uint16{0x42: (*CPU).BC, 0x52: (*CPU).DE, 0x62: (*CPU).HL, 0x72: func(c *CPU) uint16 { return c.SP }}
	for opcode, getter := range sbcPairs {
		g := getter
		ed(opcode, "SBC HL,rr", 15, func(c *CPU, ctx execCtx) ExecResult { c.sbcHL(g(c)); return resultNormal() })
	}
	adcPairs := map[byte]func(*CPU) uint16{0x4A: (*CPU).BC, 0x5A: (*CPU).DE, 0x6A: (*CPU).HL, 0x7A: func(c *CPU) uint16 { return c.SP }}
	for opcode, getter := range adcPairs {
		g := getter
		ed(opcode, "ADC HL,rr", 15, func(c *CPU, ctx execCtx) ExecResult { c.adcHL(g(c)); return resultNormal() })
	}

	ldToMem := map[byte]func(*CPU) uint16{0x43: (*CPU).BC, 0x53: (*CPU).DE, 0x63: (*CPU).HL, 0x73: func(c *CPU) uint16 { return c.SP }}
	for opcode, getter := range ldToMem {
		g := getter
		edSize(opcode, "LD (nn),rr", 4, 20, func(c *CPU, ctx execCtx) ExecResult {
			addr := c.fetchWord()
			value := g(c)
			c.write(addr, byte(value))
			c.write(addr+1, byte(value>>8))
			return resultNormal()
		})
	}
	ldFromMem := map[byte]func(*CPU, uint16){0x4B: (*CPU).SetBC, 0x5B: (*CPU).SetDE, 0x6B: (*CPU).SetHL, 0x7B: func(c *CPU, v uint16) { c.SP = v }}
	for opcode, setter := range ldFromMem {
		s := setter
		edSize(opcode, "LD rr,(nn)", 4, 20, func(c *CPU, ctx execCtx) ExecResult {
			addr := c.fetchWord()
			lo := c.read(addr)
			hi := c.read(addr + 1)
			s(c, uint16(hi)<<8|uint16(lo))
			return resultNormal()
		})
	}

	negOpcode := func(c *CPU, ctx execCtx) ExecResult {
		a := c.A
		c.A = 0 - a
		c.F = FlagN
		if c.A == 0 {
			c.F |= FlagZ
		}
		if c.A&0x80 != 0 {
			c.F |= FlagS
		}
		if a&0x0F != 0 {
			c.F |= FlagH
		}
		if a == 0x80 {
			c.F |= FlagPV
		}
		if a != 0 {
			c.F |= FlagC
		}
		c.F |= c.A & (FlagX | FlagY)
		return resultNormal()
	}
	for _, opcode := range []byte{0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C} {
		ed(opcode, "NEG", 8, negOpcode)
	}

	retn := func(c *CPU, ctx execCtx) ExecResult {
		c.IFF1 = c.IFF2
		c.PC = c.popWord()
		return resultJumped()
	}
	for _, opcode := range []byte{0x45, 0x55, 0x5D, 0x65, 0x6D, 0x75, 0x7D} {
		ed(opcode, "RETN", 14, retn)
	}
	ed(0x4D, "RETI", 14, func(c *CPU, ctx execCtx) ExecResult {
		c.IFF1 = c.IFF2
		c.PC = c.popWord()
		return resultJumped()
	})

	imModes := map[byte]byte{0x46: 0, 0x4E: 0, 0x66: 0, 0x6E: 0, 0x56: 1, 0x76: 1, 0x5E: 2, 0x7E: 2}
	for opcode, mode := range imModes {
		m := mode
		ed(opcode, "IM n", 8, func(c *CPU, ctx execCtx) ExecResult { c.IM = m; return resultNormal() })
	}

	ed(0x47, "LD I,A", 9, func(c *CPU, ctx execCtx) ExecResult { c.I = c.A; return resultNormal() })
	ed(0x4F, "LD R,A", 9, func(c *CPU, ctx execCtx) ExecResult { c.R = c.A; return resultNormal() })
	ed(0x57, "LD A,I", 9, func(c *CPU, ctx execCtx) ExecResult { c.A = c.I; c.updateLDAIRFlags(); return resultNormal() })
	ed(0x5F, "LD A,R", 9, func(c *CPU, ctx execCtx) ExecResult { c.A = c.R; c.updateLDAIRFlags(); return resultNormal() })

	ed(0x77, "NOP*", 8, func(c *CPU, ctx execCtx) ExecResult { return resultNormal() })
	ed(0x7F, "NOP*", 8, func(c *CPU, ctx execCtx) ExecResult { return resultNormal() })

	ed(0x67, "RRD", 18, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.HL()
		mem := c.read(addr)
		a := c.A
		newMem := (a << 4) | (mem >> 4)
		newA := (a & 0xF0) | (mem & 0x0F)
		c.write(addr, newMem)
		c.A = newA
		c.updateAParityFlagsPreserveCarry()
		return resultNormal()
	})
	ed(0x6F, "RLD", 18, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.HL()
		mem := c.read(addr)
		a := c.A
		newMem := (mem << 4) | (a & 0x0F)
		newA := (a & 0xF0) | (mem >> 4)
		c.write(addr, newMem)
		c.A = newA
		c.updateAParityFlagsPreserveCarry()
		return resultNormal()
	})

	ed(0xA0, "LDI", 16, func(c *CPU, ctx execCtx) ExecResult { blockLoad(c, 1); return resultNormal() })
	ed(0xA8, "LDD", 16, func(c *CPU, ctx execCtx) ExecResult { blockLoad(c, -1); return resultNormal() })
	edAlt(0xB0, "LDIR", 21, 16, func(c *CPU, ctx execCtx) ExecResult { return resultRepeat(blockLoad(c, 1)) })
	edAlt(0xB8, "LDDR", 21, 16, func(c *CPU, ctx execCtx) ExecResult { return resultRepeat(blockLoad(c, -1)) })

	ed(0xA1, "CPI", 16, func(c *CPU, ctx execCtx) ExecResult { blockCompare(c, 1); return resultNormal() })
	ed(0xA9, "CPD", 16, func(c *CPU, ctx execCtx) ExecResult { blockCompare(c, -1); return resultNormal() })
	edAlt(0xB1, "CPIR", 21, 16, func(c *CPU, ctx execCtx) ExecResult { return resultRepeat(blockCompare(c, 1)) })
	edAlt(0xB9, "CPDR", 21, 16, func(c *CPU, ctx execCtx) ExecResult { return resultRepeat(blockCompare(c, -1)) })

	ed(0xA2, "INI", 16, func(c *CPU, ctx execCtx) ExecResult { blockIn(c, 1); return resultNormal() })
	ed(0xAA, "IND", 16, func(c *CPU, ctx execCtx) ExecResult { blockIn(c, -1); return resultNormal() })
	edAlt(0xB2, "INIR", 21, 16, func(c *CPU, ctx execCtx) ExecResult { return resultRepeat(blockIn(c, 1)) })
	edAlt(0xBA, "INDR", 21, 16, func(c *CPU, ctx execCtx) ExecResult { return resultRepeat(blockIn(c, -1)) })

	ed(0xA3, "OUTI", 16, func(c *CPU, ctx execCtx) ExecResult { blockOut(c, 1); return resultNormal() })
	ed(0xAB, "OUTD", 16, func(c *CPU, ctx execCtx) ExecResult { blockOut(c, -1); return resultNormal() })
	edAlt(0xB3, "OTIR", 21, 16, func(c *CPU, ctx execCtx) ExecResult { return resultRepeat(blockOut(c, 1)) })
	edAlt(0xBB, "OTDR", 21, 16, func(c *CPU, ctx execCtx) ExecResult { return resultRepeat(blockOut(c, -1)) })
}

// blockLoad implements LDI/LDD/LDIR/LDDR's per-iteration body. dir is +1 or
// -1. Returns whether the repeat continues (BC != 0 after decrement).
func blockLoad(c *CPU, dir int) bool {
	hl, de, bc := c.HL(), c.DE(), c.BC()
	value := c.read(hl)
	c.write(de, value)
	bc--
	c.SetHL(uint16(int32(hl) + int32(dir)))
	c.SetDE(uint16(int32(de) + int32(dir)))
	c.SetBC(bc)
	c.updateLDIFlags(value, bc)
	return bc != 0
}

// blockCompare implements CPI/CPD/CPIR/CPDR.
func blockCompare(c *CPU, dir int) bool {
	hl, bc := c.HL(), c.BC()
	value := c.read(hl)
	a := c.A
	diff := a - value
	bc--
	c.SetHL(uint16(int32(hl) + int32(dir)))
	c.SetBC(bc)

	c.F = (c.F & FlagC) | FlagN
	if diff == 0 {
		c.F |= FlagZ
	}
	if diff&0x80 != 0 {
		c.F |= FlagS
	}
	if (a & 0x0F) < (value & 0x0F) {
		c.F |= FlagH
	}
	if bc != 0 {
		c.F |= FlagPV
	}
	n := diff
	if c.F&FlagH != 0 {
		n--
	}
	c.F |= n & FlagX
	if n&0x02 != 0 {
		c.F |= FlagY
	}
	return bc != 0 && diff != 0
}

// blockIn implements INI/IND/INIR/INDR.
func blockIn(c *CPU, dir int) bool {
	hl := c.HL()
	value := c.in(c.BC())
	c.write(hl, value)
	c.B--
	c.SetHL(uint16(int32(hl) + int32(dir)))
	c.updateBlockIOFlags()
	return c.B != 0
}

// blockOut implements OUTI/OUTD/OTIR/OTDR.
func blockOut(c *CPU, dir int) bool {
	hl := c.HL()
	value := c.read(hl)
	c.out(c.BC(), value)
	c.B--
	c.SetHL(uint16(int32(hl) + int32(dir)))
	c.updateBlockIOFlags()
	return c.B != 0
}
