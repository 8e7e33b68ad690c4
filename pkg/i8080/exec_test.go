package i8080

import "testing"

func TestImmediateAdd(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x3E, 0x02, 0xC6, 0x03, 0x76) // MVI A,2; ADI 3; HLT
	r.runUntilHalted(t, 10)

	requireEqualU8(t, "A", r.s.A, 0x05)
	requireEqualU16(t, "PC", r.s.PC, 0x0005)
	if r.s.RunState() != Halted {
		t.Errorf("RunState: got %v, want Halted", r.s.RunState())
	}
	requireEqualU64(t, "Tstates", r.s.Tstates, 7+7+7)
}

func TestDaaAfterBCDAdd(t *testing.T) {
	r := newCPUTestRig()
	// MVI A,0x15; ADI 0x27; DAA; HLT -- 0x15+0x27=0x3C, DAA corrects to 0x42 BCD
	r.resetAndLoad(0x0000, 0x3E, 0x15, 0xC6, 0x27, 0x27, 0x76)
	r.runUntilHalted(t, 10)

	requireEqualU8(t, "A", r.s.A, 0x42)
	if r.s.F&CFlag != 0 {
		t.Errorf("carry set, want clear")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	r := newCPUTestRig()
	// LXI H,0x2000; MVI M,0x55; MOV A,M; HLT
	r.resetAndLoad(0x0000, 0x21, 0x00, 0x20, 0x36, 0x55, 0x7E, 0x76)
	r.runUntilHalted(t, 10)

	requireEqualU8(t, "A", r.s.A, 0x55)
	requireEqualU8(t, "mem[0x2000]", r.mem[0x2000], 0x55)
	requireEqualU16(t, "HL", r.s.HL(), 0x2000)
}

func TestCallReturn(t *testing.T) {
	r := newCPUTestRig()
	// LXI SP,0x3000; CALL 0x0008; HLT; (pad); .org 8: MVI A,0xAA; RET
	r.resetAndLoad(0x0000,
		0x31, 0x00, 0x30, // LXI SP,0x3000
		0xCD, 0x08, 0x00, // CALL 0x0008
		0x76, // HLT
		0x00, // pad
	)
	r.mem[0x0008] = 0x3E // MVI A,0xAA
	r.mem[0x0009] = 0xAA
	r.mem[0x000A] = 0xC9 // RET
	r.runUntilHalted(t, 20)

	requireEqualU8(t, "A", r.s.A, 0xAA)
	requireEqualU16(t, "PC", r.s.PC, 0x0007)
	requireEqualU16(t, "SP", r.s.SP, 0x3000)
}

func TestConditionalBranchNotTaken(t *testing.T) {
	r := newCPUTestRig()
	// MVI A,1; CPI 1; JNZ 0x0100; HLT -- CPI 1 sets Z, so JNZ falls through
	r.resetAndLoad(0x0000, 0x3E, 0x01, 0xFE, 0x01, 0xC2, 0x00, 0x01, 0x76)
	r.runUntilHalted(t, 10)

	requireEqualU16(t, "PC", r.s.PC, 0x0008)
	requireEqualU64(t, "Tstates", r.s.Tstates, 7+7+10+7)
}

func TestIOEcho(t *testing.T) {
	r := newCPUTestRig()
	r.io.in[0x42] = 0x99
	// IN 0x42; OUT 0x43; HLT
	r.resetAndLoad(0x0000, 0xDB, 0x42, 0xD3, 0x43, 0x76)
	r.runUntilHalted(t, 10)

	requireEqualU8(t, "A", r.s.A, 0x99)
	requireEqualU8(t, "io.out[0x43]", r.io.out[0x43], 0x99)
}

func TestNopAliases(t *testing.T) {
	for _, op := range []uint8{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		r := newCPUTestRig()
		r.resetAndLoad(0x0000, op)
		before := r.s
		Step(&r.s, &r.mem, &r.io)
		if r.s.A != before.A || r.s.B != before.B || r.s.F != before.F {
			t.Errorf("opcode %#02x: registers changed, want NOP semantics", op)
		}
		requireEqualU16(t, "PC", r.s.PC, 0x0001)
		requireEqualU64(t, "Tstates", r.s.Tstates, 4)
	}
}

func TestJmpAliasCB(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0xCB, 0x34, 0x12) // JMP aliased via 0xCB
	Step(&r.s, &r.mem, &r.io)
	requireEqualU16(t, "PC", r.s.PC, 0x1234)
}

func TestCallAliases(t *testing.T) {
	for _, op := range []uint8{0xDD, 0xED, 0xFD} {
		r := newCPUTestRig()
		r.resetAndLoad(0x0000, 0x31, 0x00, 0x30) // LXI SP,0x3000
		Step(&r.s, &r.mem, &r.io)
		r.mem[0x0003] = op
		r.mem[0x0004] = 0x00
		r.mem[0x0005] = 0x10
		Step(&r.s, &r.mem, &r.io)
		requireEqualU16(t, "PC", r.s.PC, 0x1000)
		requireEqualU16(t, "SP", r.s.SP, 0x2FFE)
	}
}

func TestRetAliasD9(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x31, 0x00, 0x30) // LXI SP,0x3000
	Step(&r.s, &r.mem, &r.io)
	r.mem.Write(0x2FFE, 0x34)
	r.mem.Write(0x2FFF, 0x12)
	r.s.SP = 0x2FFE
	r.mem[0x0003] = 0xD9
	Step(&r.s, &r.mem, &r.io)
	requireEqualU16(t, "PC", r.s.PC, 0x1234)
	requireEqualU16(t, "SP", r.s.SP, 0x3000)
}

func TestInrDcrWrap(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x3C) // INR A
	r.s.A = 0xFF
	Step(&r.s, &r.mem, &r.io)
	requireEqualU8(t, "A", r.s.A, 0x00)
	if r.s.F&ZFlag == 0 {
		t.Errorf("Z not set after INR wrap")
	}

	r2 := newCPUTestRig()
	r2.resetAndLoad(0x0000, 0x3D) // DCR A
	r2.s.A = 0x00
	Step(&r2.s, &r2.mem, &r2.io)
	requireEqualU8(t, "A", r2.s.A, 0xFF)
	if r2.s.F&SFlag == 0 {
		t.Errorf("S not set after DCR wrap")
	}
}

func TestInrDcrPreserveCarry(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x04) // INR B
	r.s.F |= CFlag
	Step(&r.s, &r.mem, &r.io)
	if r.s.F&CFlag == 0 {
		t.Errorf("INR must not touch carry")
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x31, 0x00, 0x30, // LXI SP,0x3000
		0x01, 0x34, 0x12, // LXI B,0x1234
		0xC5,       // PUSH B
		0x01, 0, 0, // LXI B,0x0000 (clobber)
		0xC1, // POP B
		0x76, // HLT
	)
	r.runUntilHalted(t, 20)
	requireEqualU16(t, "BC", r.s.BC(), 0x1234)
	requireEqualU16(t, "SP", r.s.SP, 0x3000)
}

func TestPushPopPSWMasksReservedBits(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x31, 0x00, 0x30) // LXI SP,0x3000
	Step(&r.s, &r.mem, &r.io)
	r.s.A = 0x42
	r.s.F = 0xFF // all bits set, including X and Y
	push16(&r.s, &r.mem, r.s.PSW())
	popped := pop16(&r.s, &r.mem)
	r.s.SetPSW(popped)

	requireEqualU8(t, "A", r.s.A, 0x42)
	if r.s.F&(XFlag|YFlag) != 0 {
		t.Errorf("X/Y not cleared on POP PSW: F=%#02x", r.s.F)
	}
	if r.s.F&NFlag == 0 {
		t.Errorf("N must read 1 after PUSH/POP PSW")
	}
}

func TestXchgIdentity(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0xEB, 0xEB) // XCHG twice is identity
	r.s.SetHL(0x1234)
	r.s.SetDE(0x5678)
	Step(&r.s, &r.mem, &r.io)
	Step(&r.s, &r.mem, &r.io)
	requireEqualU16(t, "HL", r.s.HL(), 0x1234)
	requireEqualU16(t, "DE", r.s.DE(), 0x5678)
}

func TestCmaCmcIdentity(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x2F, 0x2F) // CMA twice is identity
	r.s.A = 0x5A
	Step(&r.s, &r.mem, &r.io)
	Step(&r.s, &r.mem, &r.io)
	requireEqualU8(t, "A", r.s.A, 0x5A)

	r2 := newCPUTestRig()
	r2.resetAndLoad(0x0000, 0x3F, 0x3F) // CMC twice is identity
	before := r2.s.F & CFlag
	Step(&r2.s, &r2.mem, &r2.io)
	Step(&r2.s, &r2.mem, &r2.io)
	if r2.s.F&CFlag != before {
		t.Errorf("CMC twice changed carry")
	}
}

func TestJmpWrapsAtTopOfMemory(t *testing.T) {
	r := newCPUTestRig()
	r.s.PC = 0xFFFE
	r.s.SetRunState(Running)
	r.mem.Write(0xFFFE, 0xC3)
	r.mem.Write(0xFFFF, 0x00)
	r.mem.Write(0x0000, 0x12)
	Step(&r.s, &r.mem, &r.io)
	requireEqualU16(t, "PC", r.s.PC, 0x1200)
}

func TestPushWrapsAtBottomOfStack(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0xC5) // PUSH B
	r.s.SP = 0x0001
	r.s.SetBC(0xBEEF)
	Step(&r.s, &r.mem, &r.io)
	requireEqualU16(t, "SP", r.s.SP, 0xFFFF)
	requireEqualU8(t, "mem[0x0000]", r.mem[0x0000], 0xBE)
	requireEqualU8(t, "mem[0xFFFF]", r.mem[0xFFFF], 0xEF)
}

func TestReservedFlagBitsAlwaysZero(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0xC6, 0xFF) // ADI 0xFF
	r.s.A = 0xFF
	Step(&r.s, &r.mem, &r.io)
	if r.s.F&(XFlag|YFlag) != 0 {
		t.Errorf("X/Y set after ADI: F=%#02x", r.s.F)
	}
}

func TestTstatesMonotonic(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x00, 0x00, 0x00, 0x76)
	prev := r.s.Tstates
	for i := 0; i < 4; i++ {
		Step(&r.s, &r.mem, &r.io)
		if r.s.Tstates < prev {
			t.Fatalf("Tstates decreased: %d -> %d", prev, r.s.Tstates)
		}
		prev = r.s.Tstates
	}
}

func TestHaltStopsRun(t *testing.T) {
	r := newCPUTestRig()
	r.resetAndLoad(0x0000, 0x00, 0x00, 0x76, 0x00)
	Run(&r.s, &r.mem, &r.io)
	requireEqualU16(t, "PC", r.s.PC, 0x0003)
	if r.s.RunState() != Halted {
		t.Errorf("RunState: got %v, want Halted", r.s.RunState())
	}
}
