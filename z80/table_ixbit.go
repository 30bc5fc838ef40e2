package z80

var ixBitTable [256]opcodeEntry

// buildIndexBitTable fills the DD-CB/FD-CB family: displacement then opcode,
// total instruction size 4 (prefix, CB, disp, opcode). The decoder has
// already consumed the displacement into ctx.disp by the time exec runs.
// The register field low 3 bits select which register also receives the
// result on the rotate/shift/RES/SET forms (the undocumented "copy" variants);
// code 6 is the plain (index+d)-only form.
func buildIndexBitTable(table *[256]opcodeEntry, fam Family) {
	rotateFns := []struct {
		name string
		fn   func(c *CPU, v byte) (byte, bool)
	}{
		{"RLC", func(c *CPU, v byte) (byte, bool) { return rotate8Left(v, v&0x80 != 0) }},
		{"RRC", func(c *CPU, v byte) (byte, bool) { return rotate8Right(v, v&0x01 != 0) }},
		{"RL", func(c *CPU, v byte) (byte, bool) {
			carry := v&0x80 != 0
			res := v << 1
			if c.Flag(FlagC) {
				res |= 0x01
			}
			return res, carry
		}},
		{"RR", func(c *CPU, v byte) (byte, bool) {
			carry := v&0x01 != 0
			res := v >> 1
			if c.Flag(FlagC) {
				res |= 0x80
			}
			return res, carry
		}},
		{"SLA", func(c *CPU, v byte) (byte, bool) { return shiftLeftArithmetic(v) }},
		{"SRA", func(c *CPU, v byte) (byte, bool) { return shiftRightArithmetic(v) }},
		{"SLL", func(c *CPU, v byte) (byte, bool) { return shiftLeftLogicalUndoc(v) }},
		{"SRL", func(c *CPU, v byte) (byte, bool) { return shiftRightLogical(v) }},
	}
	for g, group := range rotateFns {
		base := byte(g * 8)
		fn := group.fn
		for reg := byte(0); reg < 8; reg++ {
			opcode := base + reg
			r := reg
			table[opcode] = opcodeEntry{info: OpcodeInfo{Mnemonic: group.name + " (i+d)", Size: 4, Cycles: 23, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
				addr := c.indexedAddr(ctx.disp)
				value := c.read(addr)
				result, carry := fn(c, value)
				c.write(addr, result)
				if r != 6 {
					c.writeReg8Plain(r, result)
				}
				c.F = 0
				if carry {
					c.F |= FlagC
				}
				c.setSZPFlags(result)
				return resultNormal()
			}}
		}
	}

	for bit := byte(0); bit < 8; bit++ {
		for reg := byte(0); reg < 8; reg++ {
			opcode := 0x40 + bit*8 + reg
			b := bit
			table[opcode] = opcodeEntry{info: OpcodeInfo{Mnemonic: "BIT b,(i+d)", Size: 4, Cycles: 20, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
				value := c.read(c.indexedAddr(ctx.disp))
				set := value&(1<<b) != 0
				c.F &^= FlagZ | FlagPV | FlagS
				if !set {
					c.F |= FlagZ | FlagPV
				}
				if b == 7 && set {
					c.F |= FlagS
				}
				c.F |= FlagH
				c.F &^= FlagN
				return resultNormal()
			}}
		}
	}

	for bit := byte(0); bit < 8; bit++ {
		for reg := byte(0); reg < 8; reg++ {
			opcode := 0x80 + bit*8 + reg
			b, r := bit, reg
			table[opcode] = opcodeEntry{info: OpcodeInfo{Mnemonic: "RES b,(i+d)", Size: 4, Cycles: 23, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
				addr := c.indexedAddr(ctx.disp)
				result := c.read(addr) &^ (1 << b)
				c.write(addr, result)
				if r != 6 {
					c.writeReg8Plain(r, result)
				}
				return resultNormal()
			}}
		}
	}

	for bit := byte(0); bit < 8; bit++ {
		for reg := byte(0); reg < 8; reg++ {
			opcode := 0xC0 + bit*8 + reg
			b, r := bit, reg
			table[opcode] = opcodeEntry{info: OpcodeInfo{Mnemonic: "SET b,(i+d)", Size: 4, Cycles: 23, Family: fam}, exec: func(c *CPU, ctx execCtx) ExecResult {
				addr := c.indexedAddr(ctx.disp)
				result := c.read(addr) | (1 << b)
				c.write(addr, result)
				if r != 6 {
					c.writeReg8Plain(r, result)
				}
				return resultNormal()
			}}
		}
	}
}

func init() {
	buildIndexBitTable(&ixBitTable, IXBitFamily)
}
