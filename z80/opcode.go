package z80

// Family is the instruction-set family a decoded opcode byte belongs to,
// selected by whichever prefix byte (if any) preceded it.
type Family int

const (
	Standard Family = iota
	ExtendedStandard
	ExtendedBit
	IXFamily
	IYFamily
	IXBitFamily
	IYBitFamily
)

func (f Family) String() string {
	switch f {
	case Standard:
		return "Standard"
	case ExtendedStandard:
		return "ExtendedStandard"
	case ExtendedBit:
		return "ExtendedBit"
	case IXFamily:
		return "IX"
	case IYFamily:
		return "IY"
	case IXBitFamily:
		return "IXBit"
	case IYBitFamily:
		return "IYBit"
	default:
		return "Unknown"
	}
}

// execCtx carries the per-step decode context an executor needs beyond the
// CPU and memory: where the instruction started (for relative addressing)
// and, for the IXBit/IYBit families, the displacement the decoder already
// consumed ahead of the final opcode byte.
type execCtx struct {
	instrStart uint16
	disp       int8
}

// ExecResult is the pair of hints every executor returns to the decoder, as
// specified: whether the decoder should perform the default PC advance, and
// whether the alternate (vs. base) cycle count applies.
type ExecResult struct {
	AdvancePC     bool
	UseAlternate  bool
}

func resultNormal() ExecResult     { return ExecResult{AdvancePC: true} }
func resultJumped() ExecResult     { return ExecResult{AdvancePC: false} }
func resultBranch(taken bool) ExecResult {
	return ExecResult{AdvancePC: !taken, UseAlternate: !taken}
}
func resultRepeat(continuing bool) ExecResult {
	return ExecResult{AdvancePC: !continuing, UseAlternate: !continuing}
}

type executor func(c *CPU, ctx execCtx) ExecResult

// OpcodeInfo is the immutable metadata record carried by every (family, byte)
// table entry, per the spec's data model.
type OpcodeInfo struct {
	Mnemonic      string
	Size          int
	Cycles        int
	AltCycles     int
	HasAlt        bool
	Family        Family
}

type opcodeEntry struct {
	info OpcodeInfo
	exec executor
}

var unimplementedEntry = opcodeEntry{}

func isUnimplemented(e opcodeEntry) bool {
	return e.exec == nil
}
