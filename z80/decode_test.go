package z80

import "testing"

// TestFamilyDispatch exercises one representative opcode for every prefix
// family except FD CB (IYBit) to confirm the decoder routes to the right table and that size/cycle
// bookkeeping lines up end to end.
func TestFamilyDispatch(t *testing.T) {
	t.Run("standard", func(t *testing.T) {
		c := NewCPU(Config{MemorySize: 65536})
		c.Memory.Bytes()[0] = 0x3E // LD A,n
		c.Memory.Bytes()[1] = 0x7E
		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.A != 0x7E || cycles != 7 || c.PC != 2 {
			t.Errorf("A=%#02x cycles=%d PC=%#04x", c.A, cycles, c.PC)
		}
	})

	t.Run("extended-bit", func(t *testing.T) {
		c := NewCPU(Config{MemorySize: 65536})
		c.Memory.Bytes()[0] = 0xCB
		c.Memory.Bytes()[1] = 0x3F // SRL A
		c.A = 0x03
		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.A != 0x01 || !c.Flag(FlagC) || cycles != 8 || c.PC != 2 {
			t.Errorf("A=%#02x carry=%v cycles=%d PC=%#04x", c.A, c.Flag(FlagC), cycles, c.PC)
		}
	})

	t.Run("extended-standard", func(t *testing.T) {
		c := NewCPU(Config{MemorySize: 65536})
		c.Memory.Bytes()[0] = 0xED
		c.Memory.Bytes()[1] = 0x44 // NEG
		c.A = 0x01
		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.A != 0xFF || cycles != 8 || c.PC != 2 {
			t.Errorf("A=%#02x cycles=%d PC=%#04x", c.A, cycles, c.PC)
		}
	})

	t.Run("ix", func(t *testing.T) {
		c := NewCPU(Config{MemorySize: 65536})
		c.Memory.Bytes()[0] = 0xDD
		c.Memory.Bytes()[1] = 0x21 // LD IX,nn
		c.Memory.Bytes()[2] = 0x34
		c.Memory.Bytes()[3] = 0x12
		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.IX != 0x1234 || cycles != 14 || c.PC != 4 {
			t.Errorf("IX=%#04x cycles=%d PC=%#04x", c.IX, cycles, c.PC)
		}
	})

	t.Run("iy-indexed-memory", func(t *testing.T) {
		c := NewCPU(Config{MemorySize: 65536})
		c.Memory.Bytes()[0] = 0xFD
		c.Memory.Bytes()[1] = 0x36 // LD (IY+d),n
		c.Memory.Bytes()[2] = 0x05
		c.Memory.Bytes()[3] = 0x99
		c.IY = 0x3000
		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.Memory.Bytes()[0x3005]; got != 0x99 {
			t.Errorf("(IY+5) = %#02x, want 0x99", got)
		}
		if cycles != 19 || c.PC != 4 {
			t.Errorf("cycles=%d PC=%#04x", cycles, c.PC)
		}
	})

	t.Run("ix-bit", func(t *testing.T) {
		c := NewCPU(Config{MemorySize: 65536})
		c.Memory.Bytes()[0] = 0xDD
		c.Memory.Bytes()[1] = 0xCB
		c.Memory.Bytes()[2] = 0x02 // displacement +2
		c.Memory.Bytes()[3] = 0xC6 // SET 0,(IX+d)
		c.IX = 0x4000
		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.Memory.Bytes()[0x4002]; got != 0x01 {
			t.Errorf("(IX+2) = %#02x, want 0x01", got)
		}
		if cycles != 23 || c.PC != 4 {
			t.Errorf("cycles=%d PC=%#04x", cycles, c.PC)
		}
	})

	t.Run("unimplemented-opcode-error", func(t *testing.T) {
		c := NewCPU(Config{MemorySize: 65536})
		c.Memory.Bytes()[0] = 0xED
		c.Memory.Bytes()[1] = 0xFF // no ED entry defined here
		_, err := c.Step()
		if err == nil {
			t.Fatal("expected UnimplementedOpcodeError")
		}
		if _, ok := err.(*UnimplementedOpcodeError); !ok {
			t.Fatalf("expected *UnimplementedOpcodeError, got %T", err)
		}
	})
}
