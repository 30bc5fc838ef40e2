package z80

import "testing"

func TestStepInterruptPushesAndJumps(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536, ProgramCounter: 0x1234, StackPointer: 0xFFF0})
	cycles, err := c.StepInterrupt(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 13 {
		t.Errorf("cycles = %d, want 13", cycles)
	}
	if c.PC != 0x18 {
		t.Errorf("PC = %#04x, want 0x0018 (RST 3*8)", c.PC)
	}
	lo := c.Memory.Bytes()[0xFFEE]
	hi := c.Memory.Bytes()[0xFFEF]
	if uint16(hi)<<8|uint16(lo) != 0x1234 {
		t.Errorf("pushed return address = %#04x, want 0x1234", uint16(hi)<<8|uint16(lo))
	}
}

func TestStepInterruptRejectsOutOfRangeID(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536})
	_, err := c.StepInterrupt(8)
	if err == nil {
		t.Fatal("expected UnhandledInterruptError")
	}
	if _, ok := err.(*UnhandledInterruptError); !ok {
		t.Fatalf("expected *UnhandledInterruptError, got %T", err)
	}
}

func TestIrqHonorsIM2(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536, ProgramCounter: 0x4000, StackPointer: 0xFFF0, InterruptsEnabled: true})
	c.IM = 2
	c.I = 0x20
	vectorAddr := uint16(0x20)<<8 | uint16(0x80)
	c.Memory.Bytes()[vectorAddr] = 0x00
	c.Memory.Bytes()[vectorAddr+1] = 0x50

	cycles, handled := c.Irq(0x80)
	if !handled {
		t.Fatal("expected IRQ to be handled when IFF1 is set")
	}
	if cycles != 19 {
		t.Errorf("cycles = %d, want 19", cycles)
	}
	if c.PC != 0x5000 {
		t.Errorf("PC = %#04x, want 0x5000", c.PC)
	}
	if c.IFF1 || c.IFF2 {
		t.Error("IFF1/IFF2 should be cleared while servicing")
	}
}

func TestIrqIgnoredWhenMasked(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536})
	c.IFF1 = false
	cycles, handled := c.Irq(0xFF)
	if handled || cycles != 0 {
		t.Error("IRQ must be ignored while IFF1 is false")
	}
}

func TestNmiClearsIFF1OnlyAndPreservesIFF2ForRETN(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536, ProgramCounter: 0x0100, StackPointer: 0xFFF0})
	c.IFF1, c.IFF2 = true, true
	c.Nmi()

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 11 {
		t.Errorf("cycles = %d, want 11", cycles)
	}
	if c.PC != 0x0066 {
		t.Errorf("PC = %#04x, want 0x0066", c.PC)
	}
	if c.IFF1 {
		t.Error("IFF1 should be cleared by NMI")
	}
	if !c.IFF2 {
		t.Error("IFF2 must be preserved so RETN can restore IFF1")
	}

	c.Memory.Bytes()[0x0066] = 0xED
	c.Memory.Bytes()[0x0067] = 0x45 // RETN
	if _, err := c.Step(); err != nil {
		t.Fatalf("unexpected error executing RETN: %v", err)
	}
	if !c.IFF1 {
		t.Error("RETN should restore IFF1 from IFF2")
	}
	if c.PC != 0x0100 {
		t.Errorf("PC = %#04x, want 0x0100 after RETN", c.PC)
	}
}

func TestEIDeferralIsOneInstruction(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536})
	c.Memory.Bytes()[0] = 0xFB // EI
	c.Memory.Bytes()[1] = 0x00 // NOP
	c.Memory.Bytes()[2] = 0x00 // NOP

	if _, err := c.Step(); err != nil { // EI
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IFF1 {
		t.Error("IFF1 must still be masked immediately after EI")
	}
	if _, err := c.Step(); err != nil { // first instruction after EI
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IFF1 || !c.IFF2 {
		t.Error("IFF1/IFF2 should be enabled after exactly one deferred instruction")
	}
}

func TestNmiWakesHaltedCPU(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536, ProgramCounter: 0x0200})
	c.Memory.Bytes()[0x0200] = 0x76 // HALT

	if _, err := c.Step(); err != nil {
		t.Fatalf("unexpected error executing HALT: %v", err)
	}
	if !c.Halted || !c.Finished {
		t.Fatal("HALT must set both Halted and Finished")
	}

	c.Nmi()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("NMI must wake a halted CPU instead of erroring: %v", err)
	}
	if cycles != 11 {
		t.Errorf("cycles = %d, want 11", cycles)
	}
	if c.PC != 0x0066 {
		t.Errorf("PC = %#04x, want 0x0066", c.PC)
	}
	if c.Halted || c.Finished {
		t.Error("servicing the NMI must clear both Halted and Finished")
	}
}

func TestIrqWakesHaltedCPU(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536, ProgramCounter: 0x0300, InterruptsEnabled: true})
	c.Memory.Bytes()[0x0300] = 0x76 // HALT

	if _, err := c.Step(); err != nil {
		t.Fatalf("unexpected error executing HALT: %v", err)
	}
	if !c.Halted || !c.Finished {
		t.Fatal("HALT must set both Halted and Finished")
	}

	c.SetIRQ(true)
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("a maskable IRQ with IFF1 set must wake a halted CPU instead of erroring: %v", err)
	}
	if cycles != 13 {
		t.Errorf("cycles = %d, want 13 (IM 0 default, 0xFF vector acts as RST 38h)", cycles)
	}
	if c.PC != 0x0038 {
		t.Errorf("PC = %#04x, want 0x0038", c.PC)
	}
	if c.Halted || c.Finished {
		t.Error("servicing the IRQ must clear both Halted and Finished")
	}
}

func TestHaltWithNoPendingInterruptStillErrorsOnNextStep(t *testing.T) {
	c := NewCPU(Config{MemorySize: 65536})
	c.Memory.Bytes()[0] = 0x76 // HALT

	if _, err := c.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := c.Step()
	if _, ok := err.(*ExecutionAfterHaltError); !ok {
		t.Fatalf("expected *ExecutionAfterHaltError with nothing pending, got %v", err)
	}
}
