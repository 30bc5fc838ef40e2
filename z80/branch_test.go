package z80

import "testing"

func TestDJNZLoopsUntilBZero(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536})
	// DJNZ -2 loops on its own address until B reaches 0, then falls through
	// to HALT.
	c.Memory.Bytes()[0] = 0x10
	c.Memory.Bytes()[1] = 0xFE // -2
	c.Memory.Bytes()[2] = 0x76 // HALT
	c.B = 3

	steps := 0
	total := 0
	for !c.Finished {
		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		total += cycles
		steps++
		if steps > 10 {
			t.Fatal("DJNZ failed to terminate")
		}
	}
	if c.B != 0 {
		t.Errorf("B = %d, want 0", c.B)
	}
	// two taken iterations (13 cycles each) + one not-taken (8) + HALT (4)
	if total != 13+13+8+4 {
		t.Errorf("total cycles = %d, want %d", total, 13+13+8+4)
	}
	if c.PC != 2 {
		t.Errorf("PC = %#04x, want 0x0002 (HALT leaves PC on its own address)", c.PC)
	}
}

func TestJRConditionalNotTakenUsesAlternateCycles(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536})
	c.Memory.Bytes()[0] = 0x28 // JR Z,e
	c.Memory.Bytes()[1] = 0x10
	c.SetFlag(FlagZ, false)

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 7 {
		t.Errorf("cycles = %d, want 7 (not taken)", cycles)
	}
	if c.PC != 2 {
		t.Errorf("PC = %#04x, want 0x0002 (fell through)", c.PC)
	}
}

func TestJRConditionalTakenJumpsAndUsesBaseCycles(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536})
	c.Memory.Bytes()[0] = 0x28 // JR Z,e
	c.Memory.Bytes()[1] = 0x05
	c.SetFlag(FlagZ, true)

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 12 {
		t.Errorf("cycles = %d, want 12 (taken)", cycles)
	}
	if c.PC != 7 {
		t.Errorf("PC = %#04x, want 0x0007 (0x0002 + 5)", c.PC)
	}
}

func TestCallConditionalTakenPushesReturnAddress(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536, StackPointer: 0xFFF0})
	c.Memory.Bytes()[0] = 0xCC // CALL Z,nn
	c.Memory.Bytes()[1] = 0x00
	c.Memory.Bytes()[2] = 0x20
	c.SetFlag(FlagZ, true)

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 17 {
		t.Errorf("cycles = %d, want 17", cycles)
	}
	if c.PC != 0x2000 {
		t.Errorf("PC = %#04x, want 0x2000", c.PC)
	}
	if c.SP != 0xFFEE {
		t.Errorf("SP = %#04x, want 0xFFEE", c.SP)
	}
	if ret := c.popWord(); ret != 3 {
		t.Errorf("pushed return address = %#04x, want 0x0003", ret)
	}
}

func TestCallConditionalNotTakenLeavesStackUntouched(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536, StackPointer: 0xFFF0})
	c.Memory.Bytes()[0] = 0xCC // CALL Z,nn
	c.Memory.Bytes()[1] = 0x00
	c.Memory.Bytes()[2] = 0x20
	c.SetFlag(FlagZ, false)

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 10 {
		t.Errorf("cycles = %d, want 10 (not taken)", cycles)
	}
	if c.PC != 3 {
		t.Errorf("PC = %#04x, want 0x0003 (fell through)", c.PC)
	}
	if c.SP != 0xFFF0 {
		t.Errorf("SP = %#04x, want unchanged 0xFFF0", c.SP)
	}
}

func TestJPConditionalAlwaysReportsBaseCycles(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536})
	c.Memory.Bytes()[0] = 0xCA // JP Z,nn
	c.Memory.Bytes()[1] = 0x00
	c.Memory.Bytes()[2] = 0x30
	c.SetFlag(FlagZ, false)

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 10 {
		t.Errorf("cycles = %d, want 10 regardless of taken/not-taken", cycles)
	}
	if c.PC != 3 {
		t.Errorf("PC = %#04x, want 0x0003 (not taken)", c.PC)
	}
}
