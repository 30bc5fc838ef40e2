package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/zayn-otley/z80core/z80"
)

// breakpoint is an address trap with an optional Lua condition. A breakpoint
// with no condition always fires; one with a condition only fires when the
// expression evaluates truthy against the CPU's current registers.
type breakpoint struct {
	addr      uint16
	condition string
}

// monitor wraps a CPU instance with the stepping/breakpoint bookkeeping the
// interactive REPL drives. Grounded on the teacher's MachineMonitor, cut down
// from a multi-CPU GUI scrollback debugger to a single-CPU terminal one.
type monitor struct {
	cpu         *z80.CPU
	breakpoints map[uint16]breakpoint
	luaState    *lua.LState
}

func newMonitor(cpu *z80.CPU) *monitor {
	return &monitor{
		cpu:         cpu,
		breakpoints: make(map[uint16]breakpoint),
		luaState:    lua.NewState(),
	}
}

func (m *monitor) close() {
	m.luaState.Close()
}

func (m *monitor) setBreakpoint(addr uint16, condition string) {
	m.breakpoints[addr] = breakpoint{addr: addr, condition: condition}
}

func (m *monitor) clearBreakpoint(addr uint16) {
	delete(m.breakpoints, addr)
}

// shouldBreak reports whether execution should stop at the CPU's current PC.
func (m *monitor) shouldBreak() bool {
	bp, ok := m.breakpoints[m.cpu.PC]
	if !ok {
		return false
	}
	if bp.condition == "" {
		return true
	}
	return m.evalCondition(bp.condition)
}

// evalCondition exposes the CPU's registers as Lua globals and evaluates the
// condition as a boolean expression, e.g. "a == 0 and bc > 0x1000".
func (m *monitor) evalCondition(expr string) bool {
	L := m.luaState
	L.SetGlobal("a", lua.LNumber(m.cpu.A))
	L.SetGlobal("f", lua.LNumber(m.cpu.F))
	L.SetGlobal("b", lua.LNumber(m.cpu.B))
	L.SetGlobal("c", lua.LNumber(m.cpu.C))
	L.SetGlobal("d", lua.LNumber(m.cpu.D))
	L.SetGlobal("e", lua.LNumber(m.cpu.E))
	L.SetGlobal("h", lua.LNumber(m.cpu.H))
	L.SetGlobal("l", lua.LNumber(m.cpu.L))
	L.SetGlobal("pc", lua.LNumber(m.cpu.PC))
	L.SetGlobal("sp", lua.LNumber(m.cpu.SP))
	L.SetGlobal("af", lua.LNumber(m.cpu.AF()))
	L.SetGlobal("bc", lua.LNumber(m.cpu.BC()))
	L.SetGlobal("de", lua.LNumber(m.cpu.DE()))
	L.SetGlobal("hl", lua.LNumber(m.cpu.HL()))

	if err := L.DoString("__cond_result = (" + expr + ")"); err != nil {
		fmt.Printf("break condition error: %v\n", err)
		return false
	}
	result := L.GetGlobal("__cond_result")
	return lua.LVAsBool(result)
}

// run steps the CPU until Finished, a breakpoint fires, or maxSteps is
// exhausted (a safety backstop against runaway loops with no breakpoint).
func (m *monitor) run(maxSteps int) (steps int, totalCycles int, stoppedAt string, err error) {
	for steps < maxSteps {
		if m.cpu.Finished {
			return steps, totalCycles, "halted", nil
		}
		if steps > 0 && m.shouldBreak() {
			return steps, totalCycles, "breakpoint", nil
		}
		cycles, stepErr := m.cpu.Step()
		if stepErr != nil {
			return steps, totalCycles, "error", stepErr
		}
		totalCycles += cycles
		steps++
	}
	return steps, totalCycles, "step-limit", nil
}

func (m *monitor) printRegisters() {
	c := m.cpu
	fmt.Printf("AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X\n", c.AF(), c.BC(), c.DE(), c.HL(), c.IX, c.IY)
	fmt.Printf("SP=%04X PC=%04X I=%02X R=%02X IM=%d IFF1=%v IFF2=%v\n", c.SP, c.PC, c.I, c.R, c.IM, c.IFF1, c.IFF2)
	fmt.Printf("flags: S=%v Z=%v H=%v PV=%v N=%v C=%v  halted=%v cycles=%d\n",
		c.Flag(z80.FlagS), c.Flag(z80.FlagZ), c.Flag(z80.FlagH), c.Flag(z80.FlagPV), c.Flag(z80.FlagN), c.Flag(z80.FlagC),
		c.Finished, c.Cycles)
}
