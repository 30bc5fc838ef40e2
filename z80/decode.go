package z80

// Step fetches, decodes, and executes exactly one instruction, per the
// decoder contract in the specification. It returns the number of machine
// cycles consumed. Precondition: Finished is false, unless an NMI or an
// IRQ (with IFF1 set) is pending, in which case a halted CPU wakes to
// service it instead of erroring.
func (c *CPU) Step() (int, error) {
	if c.nmiLine.Load() && !c.nmiPrev {
		c.nmiPending = true
	}
	c.nmiPrev = c.nmiLine.Load()

	if c.nmiPending {
		return c.serviceNMI(), nil
	}

	if c.irqLine.Load() && c.IFF1 {
		return c.serviceIRQ(), nil
	}

	if c.Finished {
		return 0, &ExecutionAfterHaltError{}
	}

	// iffDelay becomes pending partway through this call when the
	// instruction just executed is EI itself; applyEIDelay must not see
	// that until the *following* Step(), which is why it only runs when
	// the delay was already pending before this instruction ran.
	delayPending := c.iffDelay > 0

	cycles, err := c.step()
	if err != nil {
		return 0, err
	}
	if delayPending {
		c.applyEIDelay()
	}
	return cycles, nil
}

func (c *CPU) applyEIDelay() {
	if c.iffDelay > 0 {
		c.iffDelay--
		if c.iffDelay == 0 {
			c.IFF1 = true
			c.IFF2 = true
		}
	}
}

func (c *CPU) step() (int, error) {
	instrStart := c.PC
	pos := instrStart
	c.memErr = nil

	b0 := c.read(pos)
	c.incrementR()
	pos++

	var entry opcodeEntry
	var family Family
	var ctx execCtx
	ctx.instrStart = instrStart
	c.prefixIndex = prefixNone

	switch b0 {
	case 0xCB:
		opByte := c.read(pos)
		c.incrementR()
		pos++
		family = ExtendedBit
		entry = cbTable[opByte]
		if isUnimplemented(entry) {
			return 0, &UnimplementedOpcodeError{Family: family, Byte: opByte, Prefix: []byte{0xCB}}
		}

	case 0xED:
		opByte := c.read(pos)
		c.incrementR()
		pos++
		family = ExtendedStandard
		entry = edTable[opByte]
		if isUnimplemented(entry) {
			return 0, &UnimplementedOpcodeError{Family: family, Byte: opByte, Prefix: []byte{0xED}}
		}

	case 0xDD, 0xFD:
		if b0 == 0xDD {
			c.prefixIndex = prefixIX
		} else {
			c.prefixIndex = prefixIY
		}
		next := c.read(pos)
		if next == 0xCB {
			c.incrementR()
			pos++
			disp := int8(c.read(pos))
			pos++
			finalOp := c.read(pos)
			c.incrementR()
			pos++
			ctx.disp = disp
			if b0 == 0xDD {
				family = IXBitFamily
				entry = ixBitTable[finalOp]
			} else {
				family = IYBitFamily
				entry = iyBitTable[finalOp]
			}
			if isUnimplemented(entry) {
				return 0, &UnimplementedOpcodeError{Family: family, Byte: finalOp, Prefix: []byte{b0, 0xCB}}
			}
		} else {
			c.incrementR()
			pos++
			if b0 == 0xDD {
				family = IXFamily
				entry = ddTable[next]
			} else {
				family = IYFamily
				entry = fdTable[next]
			}
			if isUnimplemented(entry) {
				return 0, &UnimplementedOpcodeError{Family: family, Byte: next, Prefix: []byte{b0}}
			}
		}

	default:
		family = Standard
		entry = standardTable[b0]
		if isUnimplemented(entry) {
			return 0, &UnimplementedOpcodeError{Family: family, Byte: b0}
		}
	}

	c.cursor = pos
	result := entry.exec(c, ctx)

	if c.memErr != nil {
		return 0, c.memErr
	}

	if result.AdvancePC {
		c.PC = instrStart + uint16(entry.info.Size)
	}

	cycles := entry.info.Cycles
	if result.UseAlternate {
		if !entry.info.HasAlt {
			return 0, &InvalidOpcodeTableError{Family: family, Byte: b0, Mnemonic: entry.info.Mnemonic}
		}
		cycles = entry.info.AltCycles
	}
	c.Cycles += uint64(cycles)
	return cycles, nil
}

// StepInterrupt executes the equivalent of CALL 8*id (an RST n vector),
// pushing PC and jumping to the vector. This is the interrupt-mode-1
// compatible surface; id must be in 0..7.
func (c *CPU) StepInterrupt(id int) (int, error) {
	if id < 0 || id > 7 {
		return 0, &UnhandledInterruptError{ID: id}
	}
	if c.Finished {
		c.Finished = false
	}
	c.Halted = false
	c.pushWord(c.PC)
	c.PC = uint16(8 * id)
	c.Cycles += 13
	return 13, nil
}

// Irq signals a genuine external maskable interrupt request and, if IFF1 is
// set, services it immediately according to the configured interrupt mode
// (0, 1, or 2) rather than always behaving as IM 1 the way StepInterrupt
// does. vector is the byte a peripheral would place on the data bus during
// the acknowledge cycle: in IM 2 it is the low byte of the vector-table
// address, in IM 0 an RST opcode selects its restart address (any other byte
// falls back to 0x0038), and in IM 1 it is ignored.
func (c *CPU) Irq(vector byte) (int, bool) {
	if !c.IFF1 {
		return 0, false
	}
	c.SetIRQVector(vector)
	cycles := c.serviceIRQ()
	return cycles, true
}

// Nmi signals a non-maskable interrupt; it is serviced unconditionally on
// the next Step, regardless of IFF1.
func (c *CPU) Nmi() {
	c.nmiPending = true
}

func (c *CPU) serviceNMI() int {
	c.nmiPending = false
	c.Halted = false
	c.Finished = false
	c.incrementR()
	c.pushWord(c.PC)
	c.IFF1 = false
	c.PC = 0x0066
	c.Cycles += 11
	return 11
}

func (c *CPU) serviceIRQ() int {
	c.Halted = false
	c.Finished = false
	c.incrementR()
	c.IFF1 = false
	c.IFF2 = false

	var cycles int
	switch c.IM {
	case 0:
		c.pushWord(c.PC)
		c.PC = c.im0Vector()
		cycles = 13
	case 2:
		vectorAddr := uint16(c.I)<<8 | uint16(c.irqVector.Load())
		lo := c.read(vectorAddr)
		hi := c.read(vectorAddr + 1)
		c.pushWord(c.PC)
		c.PC = uint16(hi)<<8 | uint16(lo)
		cycles = 19
	default:
		c.pushWord(c.PC)
		c.PC = 0x0038
		cycles = 13
	}
	c.Cycles += uint64(cycles)
	return cycles
}

func (c *CPU) im0Vector() uint16 {
	vector := byte(c.irqVector.Load())
	if vector&0xC7 == 0xC7 {
		return uint16(vector & 0x38)
	}
	return 0x0038
}
