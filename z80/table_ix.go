package z80

var ddTable [256]opcodeEntry

// buildIndexTable derives an IX/IY-family table from the Standard table: every
// entry that doesn't reference (HL) directly is reused unmodified (register
// substitution for H/L already happens inside readReg8/writeReg8 via
// prefixIndex), just with the prefix byte's extra size and timing folded in.
// Entries that address (HL) are replaced outright with an (index+d) form that
// consumes a trailing displacement byte, and a short list of HL-pair
// instructions (ADD/INC/DEC/LD/PUSH/POP/EX/JP) are replaced to operate on the
// index register itself.
func buildIndexTable(table *[256]opcodeEntry, fam Family, idx func(*CPU) *uint16) {
	for i := 0; i < 256; i++ {
		base := standardTable[i]
		if isUnimplemented(base) {
			continue
		}
		info := base.info
		info.Size++
		info.Cycles += 4
		if info.HasAlt {
			info.AltCycles += 4
		}
		info.Family = fam
		table[i] = opcodeEntry{info: info, exec: base.exec}
	}

	for dest := byte(0); dest < 8; dest++ {
		for src := byte(0); src < 8; src++ {
			if dest != 6 && src != 6 {
				continue
			}
			if dest == 6 && src == 6 {
				continue // HALT, not an (index+d) form
			}
			opcode := byte(0x40) + dest*8 + src
			d, s := dest, src
			table[opcode] = opcodeEntry{info: OpcodeInfo{Mnemonic: "LD r,(i+d)", Size: 3, Cycles: 19, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
				disp := int8(c.fetchByte())
				addr := c.indexedAddr(disp)
				if s == 6 {
					c.writeReg8Plain(d, c.read(addr))
				} else {
					c.write(addr, c.readReg8Plain(s))
				}
				return resultNormal()
			}}
		}
	}

	aluBases := []struct {
		base byte
		op   aluOp
	}{
		{0x80, aluAdd}, {0x88, aluAdc}, {0x90, aluSub}, {0x98, aluSbc},
		{0xA0, aluAnd}, {0xA8, aluXor}, {0xB0, aluOr}, {0xB8, aluCp},
	}
	for _, g := range aluBases {
		opcode := g.base + 6
		op := g.op
		table[opcode] = opcodeEntry{info: OpcodeInfo{Mnemonic: "ALU A,(i+d)", Size: 3, Cycles: 19, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
			disp := int8(c.fetchByte())
			c.performALU(op, c.read(c.indexedAddr(disp)))
			return resultNormal()
		}}
	}

	table[0x34] = opcodeEntry{info: OpcodeInfo{Mnemonic: "INC (i+d)", Size: 3, Cycles: 23, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		disp := int8(c.fetchByte())
		addr := c.indexedAddr(disp)
		c.write(addr, c.inc8(c.read(addr)))
		return resultNormal()
	}}
	table[0x35] = opcodeEntry{info: OpcodeInfo{Mnemonic: "DEC (i+d)", Size: 3, Cycles: 23, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		disp := int8(c.fetchByte())
		addr := c.indexedAddr(disp)
		c.write(addr, c.dec8(c.read(addr)))
		return resultNormal()
	}}
	table[0x36] = opcodeEntry{info: OpcodeInfo{Mnemonic: "LD (i+d),n", Size: 4, Cycles: 19, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		disp := int8(c.fetchByte())
		value := c.fetchByte()
		c.write(c.indexedAddr(disp), value)
		return resultNormal()
	}}

	pairSources := map[byte]func(*CPU) uint16{0x09: (*CPU).BC, 0x19: (*CPU).DE, 0x39: func(c *CPU) uint16 { return c.SP }}
	for opcode, getter := range pairSources {
		g := getter
		table[opcode] = opcodeEntry{info: OpcodeInfo{Mnemonic: "ADD i,rr", Size: 2, Cycles: 15, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
			c.addIndexReg(idx(c), g(c))
			return resultNormal()
		}}
	}
	table[0x29] = opcodeEntry{info: OpcodeInfo{Mnemonic: "ADD i,i", Size: 2, Cycles: 15, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		p := idx(c)
		c.addIndexReg(p, *p)
		return resultNormal()
	}}

	table[0x21] = opcodeEntry{info: OpcodeInfo{Mnemonic: "LD i,nn", Size: 4, Cycles: 14, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		*idx(c) = c.fetchWord()
		return resultNormal()
	}}
	table[0x22] = opcodeEntry{info: OpcodeInfo{Mnemonic: "LD (nn),i", Size: 4, Cycles: 20, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		addr := c.fetchWord()
		value := *idx(c)
		c.write(addr, byte(value))
		c.write(addr+1, byte(value>>8))
		return resultNormal()
	}}
	table[0x2A] = opcodeEntry{info: OpcodeInfo{Mnemonic: "LD i,(nn)", Size: 4, Cycles: 20, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		addr := c.fetchWord()
		lo := c.read(addr)
		hi := c.read(addr + 1)
		*idx(c) = uint16(hi)<<8 | uint16(lo)
		return resultNormal()
	}}
	table[0x23] = opcodeEntry{info: OpcodeInfo{Mnemonic: "INC i", Size: 2, Cycles: 10, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		*idx(c)++
		return resultNormal()
	}}
	table[0x2B] = opcodeEntry{info: OpcodeInfo{Mnemonic: "DEC i", Size: 2, Cycles: 10, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		*idx(c)--
		return resultNormal()
	}}
	table[0xE5] = opcodeEntry{info: OpcodeInfo{Mnemonic: "PUSH i", Size: 2, Cycles: 15, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		c.pushWord(*idx(c))
		return resultNormal()
	}}
	table[0xE1] = opcodeEntry{info: OpcodeInfo{Mnemonic: "POP i", Size: 2, Cycles: 14, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		*idx(c) = c.popWord()
		return resultNormal()
	}}
	table[0xE3] = opcodeEntry{info: OpcodeInfo{Mnemonic: "EX (SP),i", Size: 2, Cycles: 23, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		lo := c.read(c.SP)
		hi := c.read(c.SP + 1)
		memVal := uint16(hi)<<8 | uint16(lo)
		p := idx(c)
		c.write(c.SP, byte(*p))
		c.write(c.SP+1, byte(*p>>8))
		*p = memVal
		return resultNormal()
	}}
	table[0xE9] = opcodeEntry{info: OpcodeInfo{Mnemonic: "JP (i)", Size: 2, Cycles: 8, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		c.PC = *idx(c)
		return resultJumped()
	}}
	table[0xF9] = opcodeEntry{info: OpcodeInfo{Mnemonic: "LD SP,i", Size: 2, Cycles: 10, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
		c.SP = *idx(c)
		return resultNormal()
	}}
}

func init() {
	buildIndexTable(&ddTable, IXFamily, func(c *CPU) *uint16 { return &c.IX })
}
