package z80

var standardTable [256]opcodeEntry

// The Standard table is filled while package variables are initialized,
// ahead of every init function, because the DD/FD tables are derived from it
// inside their own init functions.
var _ = initStandardTable()

func std(op byte, mnemonic string, size, cycles int, fn executor) {
	standardTable[op] = opcodeEntry{info: OpcodeInfo{Mnemonic: mnemonic, Size: size, Cycles: cycles, Family: Standard}, exec: fn}
}

func stdAlt(op byte, mnemonic string, size, cycles, alt int, fn executor) {
	standardTable[op] = opcodeEntry{info: OpcodeInfo{Mnemonic: mnemonic, Size: size, Cycles: cycles, AltCycles: alt, HasAlt: true, Family: Standard}, exec: fn}
}

func initStandardTable() bool {
	std(0x00, "NOP", 1, 4, func(c *CPU, ctx execCtx) ExecResult { return resultNormal() })
	std(0x76, "HALT", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		c.Halted = true
		c.Finished = true
		return resultJumped()
	})

	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dest := byte((opcode >> 3) & 0x07)
		src := byte(opcode & 0x07)
		cycles := 4
		if dest == 6 || src == 6 {
			cycles = 7
		}
		std(byte(opcode), "LD r,r'", 1, cycles, func(c *CPU, ctx execCtx) ExecResult {
			c.writeReg8(dest, c.readReg8(src))
			return resultNormal()
		})
	}

	ldRegImm := map[byte]byte{0x06: 0, 0x0E: 1, 0x16: 2, 0x1E: 3, 0x26: 4, 0x2E: 5, 0x36: 6, 0x3E: 7}
	for opcode, reg := range ldRegImm {
		dest := reg
		cycles := 7
		if dest == 6 {
			cycles = 10
		}
		std(opcode, "LD r,n", 2, cycles, func(c *CPU, ctx execCtx) ExecResult {
			c.writeReg8(dest, c.fetchByte())
			return resultNormal()
		})
	}

	aluGroups := []struct {
		base byte
		op   aluOp
	}{
		{0x80, aluAdd}, {0x88, aluAdc}, {0x90, aluSub}, {0x98, aluSbc},
		{0xA0, aluAnd}, {0xA8, aluXor}, {0xB0, aluOr}, {0xB8, aluCp},
	}
	for _, g := range aluGroups {
		for i := byte(0); i < 8; i++ {
			opcode := g.base + i
			src := i
			op := g.op
			cycles := 4
			if src == 6 {
				cycles = 7
			}
			std(opcode, "ALU A,r", 1, cycles, func(c *CPU, ctx execCtx) ExecResult {
				c.performALU(op, c.readReg8(src))
				return resultNormal()
			})
		}
	}

	immALU := []struct {
		op byte
		a  aluOp
	}{
		{0xC6, aluAdd}, {0xCE, aluAdc}, {0xD6, aluSub}, {0xDE, aluSbc},
		{0xE6, aluAnd}, {0xEE, aluXor}, {0xF6, aluOr}, {0xFE, aluCp},
	}
	for _, e := range immALU {
		op := e.a
		std(e.op, "ALU A,n", 2, 7, func(c *CPU, ctx execCtx) ExecResult {
			c.performALU(op, c.fetchByte())
			return resultNormal()
		})
	}

	std(0x27, "DAA", 1, 4, execDAA)
	std(0x2F, "CPL", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		c.A = ^c.A
		c.F = (c.F & (FlagS | FlagZ | FlagPV | FlagC)) | FlagH | FlagN
		c.F |= c.A & (FlagX | FlagY)
		return resultNormal()
	})
	std(0x37, "SCF", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		c.F = (c.F & (FlagS | FlagZ | FlagPV)) | FlagC
		c.F |= c.A & (FlagX | FlagY)
		return resultNormal()
	})
	std(0x3F, "CCF", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		carry := c.Flag(FlagC)
		c.F = (c.F & (FlagS | FlagZ | FlagPV)) | (c.A & (FlagX | FlagY))
		if carry {
			c.F |= FlagH
		} else {
			c.F |= FlagC
		}
		return resultNormal()
	})

	std(0x01, "LD BC,nn", 3, 10, func(c *CPU, ctx execCtx) ExecResult { c.SetBC(c.fetchWord()); return resultNormal() })
	std(0x11, "LD DE,nn", 3, 10, func(c *CPU, ctx execCtx) ExecResult { c.SetDE(c.fetchWord()); return resultNormal() })
	std(0x21, "LD HL,nn", 3, 10, func(c *CPU, ctx execCtx) ExecResult { c.SetHL(c.fetchWord()); return resultNormal() })
	std(0x31, "LD SP,nn", 3, 10, func(c *CPU, ctx execCtx) ExecResult { c.SP = c.fetchWord(); return resultNormal() })

	std(0x09, "ADD HL,BC", 1, 11, func(c *CPU, ctx execCtx) ExecResult { c.addHL(c.BC()); return resultNormal() })
	std(0x19, "ADD HL,DE", 1, 11, func(c *CPU, ctx execCtx) ExecResult { c.addHL(c.DE()); return resultNormal() })
	std(0x29, "ADD HL,HL", 1, 11, func(c *CPU, ctx execCtx) ExecResult { c.addHL(c.HL()); return resultNormal() })
	std(0x39, "ADD HL,SP", 1, 11, func(c *CPU, ctx execCtx) ExecResult { c.addHL(c.SP); return resultNormal() })

	std(0x03, "INC BC", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SetBC(c.BC() + 1); return resultNormal() })
	std(0x13, "INC DE", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SetDE(c.DE() + 1); return resultNormal() })
	std(0x23, "INC HL", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SetHL(c.HL() + 1); return resultNormal() })
	std(0x33, "INC SP", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SP++; return resultNormal() })
	std(0x0B, "DEC BC", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SetBC(c.BC() - 1); return resultNormal() })
	std(0x1B, "DEC DE", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SetDE(c.DE() - 1); return resultNormal() })
	std(0x2B, "DEC HL", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SetHL(c.HL() - 1); return resultNormal() })
	std(0x3B, "DEC SP", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SP--; return resultNormal() })

	std(0xC5, "PUSH BC", 1, 11, func(c *CPU, ctx execCtx) ExecResult { c.pushWord(c.BC()); return resultNormal() })
	std(0xD5, "PUSH DE", 1, 11, func(c *CPU, ctx execCtx) ExecResult { c.pushWord(c.DE()); return resultNormal() })
	std(0xE5, "PUSH HL", 1, 11, func(c *CPU, ctx execCtx) ExecResult { c.pushWord(c.HL()); return resultNormal() })
	std(0xF5, "PUSH AF", 1, 11, func(c *CPU, ctx execCtx) ExecResult { c.pushWord(c.AF()); return resultNormal() })
	std(0xC1, "POP BC", 1, 10, func(c *CPU, ctx execCtx) ExecResult { c.SetBC(c.popWord()); return resultNormal() })
	std(0xD1, "POP DE", 1, 10, func(c *CPU, ctx execCtx) ExecResult { c.SetDE(c.popWord()); return resultNormal() })
	std(0xE1, "POP HL", 1, 10, func(c *CPU, ctx execCtx) ExecResult { c.SetHL(c.popWord()); return resultNormal() })
	std(0xF1, "POP AF", 1, 10, func(c *CPU, ctx execCtx) ExecResult { c.SetAF(c.popWord()); return resultNormal() })

	std(0xC3, "JP nn", 3, 10, func(c *CPU, ctx execCtx) ExecResult { c.PC = c.fetchWord(); return resultJumped() })
	std(0x18, "JR e", 2, 12, func(c *CPU, ctx execCtx) ExecResult {
		disp := int8(c.fetchByte())
		c.PC = uint16(int32(c.cursor) + int32(disp))
		return resultJumped()
	})
	stdAlt(0x10, "DJNZ e", 2, 13, 8, func(c *CPU, ctx execCtx) ExecResult {
		disp := int8(c.fetchByte())
		target := uint16(int32(c.cursor) + int32(disp))
		c.B--
		taken := c.B != 0
		if taken {
			c.PC = target
		}
		return resultBranch(taken)
	})
	std(0xCD, "CALL nn", 3, 17, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.fetchWord()
		c.pushWord(c.cursor)
		c.PC = addr
		return resultJumped()
	})
	std(0xC9, "RET", 1, 10, func(c *CPU, ctx execCtx) ExecResult { c.PC = c.popWord(); return resultJumped() })

	std(0xE3, "EX (SP),HL", 1, 19, func(c *CPU, ctx execCtx) ExecResult {
		lo := c.read(c.SP)
		hi := c.read(c.SP + 1)
		memVal := uint16(hi)<<8 | uint16(lo)
		hl := c.HL()
		c.write(c.SP, byte(hl))
		c.write(c.SP+1, byte(hl>>8))
		c.SetHL(memVal)
		return resultNormal()
	})
	std(0x08, "EX AF,AF'", 1, 4, func(c *CPU, ctx execCtx) ExecResult { c.ExAF(); return resultNormal() })
	std(0xEB, "EX DE,HL", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		c.D, c.H = c.H, c.D
		c.E, c.L = c.L, c.E
		return resultNormal()
	})
	std(0xD9, "EXX", 1, 4, func(c *CPU, ctx execCtx) ExecResult { c.Exx(); return resultNormal() })
	std(0xE9, "JP (HL)", 1, 4, func(c *CPU, ctx execCtx) ExecResult { c.PC = c.HL(); return resultJumped() })

	std(0x22, "LD (nn),HL", 3, 16, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.fetchWord()
		value := c.HL()
		c.write(addr, byte(value))
		c.write(addr+1, byte(value>>8))
		return resultNormal()
	})
	std(0x2A, "LD HL,(nn)", 3, 16, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.fetchWord()
		lo := c.read(addr)
		hi := c.read(addr + 1)
		c.SetHL(uint16(hi)<<8 | uint16(lo))
		return resultNormal()
	})
	std(0x32, "LD (nn),A", 3, 13, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.fetchWord()
		c.write(addr, c.A)
		return resultNormal()
	})
	std(0x3A, "LD A,(nn)", 3, 13, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.fetchWord()
		c.A = c.read(addr)
		return resultNormal()
	})
	std(0x02, "LD (BC),A", 1, 7, func(c *CPU, ctx execCtx) ExecResult { c.write(c.BC(), c.A); return resultNormal() })
	std(0x0A, "LD A,(BC)", 1, 7, func(c *CPU, ctx execCtx) ExecResult { c.A = c.read(c.BC()); return resultNormal() })
	std(0x12, "LD (DE),A", 1, 7, func(c *CPU, ctx execCtx) ExecResult { c.write(c.DE(), c.A); return resultNormal() })
	std(0x1A, "LD A,(DE)", 1, 7, func(c *CPU, ctx execCtx) ExecResult { c.A = c.read(c.DE()); return resultNormal() })
	std(0xF9, "LD SP,HL", 1, 6, func(c *CPU, ctx execCtx) ExecResult { c.SP = c.HL(); return resultNormal() })

	std(0xD3, "OUT (n),A", 2, 11, func(c *CPU, ctx execCtx) ExecResult {
		port := uint16(c.A)<<8 | uint16(c.fetchByte())
		c.out(port, c.A)
		return resultNormal()
	})
	std(0xDB, "IN A,(n)", 2, 11, func(c *CPU, ctx execCtx) ExecResult {
		port := uint16(c.A)<<8 | uint16(c.fetchByte())
		c.A = c.in(port)
		c.updateInFlags(c.A)
		return resultNormal()
	})

	std(0x07, "RLCA", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		carry := c.A&0x80 != 0
		c.A = c.A<<1 | c.A>>7
		c.updateRotateFlags(carry)
		return resultNormal()
	})
	std(0x0F, "RRCA", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		carry := c.A&0x01 != 0
		c.A = c.A>>1 | c.A<<7
		c.updateRotateFlags(carry)
		return resultNormal()
	})
	std(0x17, "RLA", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		carryIn := c.Flag(FlagC)
		carryOut := c.A&0x80 != 0
		c.A = c.A << 1
		if carryIn {
			c.A |= 0x01
		}
		c.updateRotateFlags(carryOut)
		return resultNormal()
	})
	std(0x1F, "RRA", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		carryIn := c.Flag(FlagC)
		carryOut := c.A&0x01 != 0
		c.A = c.A >> 1
		if carryIn {
			c.A |= 0x80
		}
		c.updateRotateFlags(carryOut)
		return resultNormal()
	})

	rstVectors := map[byte]uint16{0xC7: 0x00, 0xCF: 0x08, 0xD7: 0x10, 0xDF: 0x18, 0xE7: 0x20, 0xEF: 0x28, 0xF7: 0x30, 0xFF: 0x38}
	for opcode, vector := range rstVectors {
		v := vector
		std(opcode, "RST p", 1, 11, func(c *CPU, ctx execCtx) ExecResult {
			c.pushWord(c.cursor)
			c.PC = v
			return resultJumped()
		})
	}

	incDec8 := []struct {
		op     byte
		reg    byte
		dec    bool
		useHL  bool
		cycles int
	}{
		{0x04, 0, false, false, 4}, {0x0C, 1, false, false, 4}, {0x14, 2, false, false, 4}, {0x1C, 3, false, false, 4},
		{0x24, 4, false, false, 4}, {0x2C, 5, false, false, 4}, {0x3C, 7, false, false, 4},
		{0x05, 0, true, false, 4}, {0x0D, 1, true, false, 4}, {0x15, 2, true, false, 4}, {0x1D, 3, true, false, 4},
		{0x25, 4, true, false, 4}, {0x2D, 5, true, false, 4}, {0x3D, 7, true, false, 4},
	}
	for _, e := range incDec8 {
		reg := e.reg
		dec := e.dec
		std(e.op, "INC/DEC r", 1, e.cycles, func(c *CPU, ctx execCtx) ExecResult {
			if dec {
				c.writeReg8(reg, c.dec8(c.readReg8(reg)))
			} else {
				c.writeReg8(reg, c.inc8(c.readReg8(reg)))
			}
			return resultNormal()
		})
	}
	std(0x34, "INC (HL)", 1, 11, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.HL()
		c.write(addr, c.inc8(c.read(addr)))
		return resultNormal()
	})
	std(0x35, "DEC (HL)", 1, 11, func(c *CPU, ctx execCtx) ExecResult {
		addr := c.HL()
		c.write(addr, c.dec8(c.read(addr)))
		return resultNormal()
	})

	std(0xF3, "DI", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		c.IFF1, c.IFF2 = false, false
		c.iffDelay = 0
		return resultNormal()
	})
	std(0xFB, "EI", 1, 4, func(c *CPU, ctx execCtx) ExecResult {
		c.iffDelay = 1
		return resultNormal()
	})

	jpConds := map[byte]func(*CPU) bool{
		0xC2: func(c *CPU) bool { return !c.Flag(FlagZ) },
		0xCA: func(c *CPU) bool { return c.Flag(FlagZ) },
		0xD2: func(c *CPU) bool { return !c.Flag(FlagC) },
		0xDA: func(c *CPU) bool { return c.Flag(FlagC) },
		0xE2: func(c *CPU) bool { return !c.Flag(FlagPV) },
		0xEA: func(c *CPU) bool { return c.Flag(FlagPV) },
		0xF2: func(c *CPU) bool { return !c.Flag(FlagS) },
		0xFA: func(c *CPU) bool { return c.Flag(FlagS) },
	}
	for opcode, cond := range jpConds {
		cf := cond
		std(opcode, "JP cc,nn", 3, 10, func(c *CPU, ctx execCtx) ExecResult {
			addr := c.fetchWord()
			if cf(c) {
				c.PC = addr
				return resultJumped()
			}
			return resultNormal()
		})
	}

	jrConds := map[byte]func(*CPU) bool{
		0x20: func(c *CPU) bool { return !c.Flag(FlagZ) },
		0x28: func(c *CPU) bool { return c.Flag(FlagZ) },
		0x30: func(c *CPU) bool { return !c.Flag(FlagC) },
		0x38: func(c *CPU) bool { return c.Flag(FlagC) },
	}
	for opcode, cond := range jrConds {
		cf := cond
		stdAlt(opcode, "JR cc,e", 2, 12, 7, func(c *CPU, ctx execCtx) ExecResult {
			disp := int8(c.fetchByte())
			taken := cf(c)
			if taken {
				c.PC = uint16(int32(c.cursor) + int32(disp))
			}
			return resultBranch(taken)
		})
	}

	callConds := map[byte]func(*CPU) bool{
		0xC4: func(c *CPU) bool { return !c.Flag(FlagZ) },
		0xCC: func(c *CPU) bool { return c.Flag(FlagZ) },
		0xD4: func(c *CPU) bool { return !c.Flag(FlagC) },
		0xDC: func(c *CPU) bool { return c.Flag(FlagC) },
		0xE4: func(c *CPU) bool { return !c.Flag(FlagPV) },
		0xEC: func(c *CPU) bool { return c.Flag(FlagPV) },
		0xF4: func(c *CPU) bool { return !c.Flag(FlagS) },
		0xFC: func(c *CPU) bool { return c.Flag(FlagS) },
	}
	for opcode, cond := range callConds {
		cf := cond
		stdAlt(opcode, "CALL cc,nn", 3, 17, 10, func(c *CPU, ctx execCtx) ExecResult {
			addr := c.fetchWord()
			taken := cf(c)
			if taken {
				c.pushWord(c.cursor)
				c.PC = addr
			}
			return resultBranch(taken)
		})
	}

	retConds := map[byte]func(*CPU) bool{
		0xC0: func(c *CPU) bool { return !c.Flag(FlagZ) },
		0xC8: func(c *CPU) bool { return c.Flag(FlagZ) },
		0xD0: func(c *CPU) bool { return !c.Flag(FlagC) },
		0xD8: func(c *CPU) bool { return c.Flag(FlagC) },
		0xE0: func(c *CPU) bool { return !c.Flag(FlagPV) },
		0xE8: func(c *CPU) bool { return c.Flag(FlagPV) },
		0xF0: func(c *CPU) bool { return !c.Flag(FlagS) },
		0xF8: func(c *CPU) bool { return c.Flag(FlagS) },
	}
	for opcode, cond := range retConds {
		cf := cond
		stdAlt(opcode, "RET cc", 1, 11, 5, func(c *CPU, ctx execCtx) ExecResult {
			taken := cf(c)
			if taken {
				c.PC = c.popWord()
			}
			return resultBranch(taken)
		})
	}
	return true
}

func execDAA(c *CPU, ctx execCtx) ExecResult {
	a := c.A
	adj := byte(0)
	carry := c.Flag(FlagC)
	if c.Flag(FlagH) || (!c.Flag(FlagN) && (a&0x0F) > 0x09) {
		adj |= 0x06
	}
	if carry || (!c.Flag(FlagN) && a > 0x99) {
		adj |= 0x60
	}

	var res byte
	if c.Flag(FlagN) {
		res = a - adj
	} else {
		res = a + adj
	}

	c.A = res
	c.F &^= FlagS | FlagZ | FlagPV | FlagH | FlagC | FlagX | FlagY
	if res == 0 {
		c.F |= FlagZ
	}
	if res&0x80 != 0 {
		c.F |= FlagS
	}
	if parity8(res) {
		c.F |= FlagPV
	}
	if c.Flag(FlagN) {
		if (a^res)&0x10 != 0 {
			c.F |= FlagH
		}
	} else if (a&0x0F)+(adj&0x0F) > 0x0F {
		c.F |= FlagH
	}
	if adj >= 0x60 {
		c.F |= FlagC
	}
	c.F |= res & (FlagX | FlagY)
	return resultNormal()
}
