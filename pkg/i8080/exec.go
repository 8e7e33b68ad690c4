package i8080

// Run advances execution until RunState is no longer Running. This is the
// core's single entry point (spec.md §6, "run(cpu_state, memory, io)").
func Run(s *State, mem Memory, io IO) {
	for s.RunState() == Running {
		Step(s, mem, io)
	}
}

// Step executes exactly one instruction: fetch, dispatch, charge T-states.
// Exported so conformance tooling and tests can single-step.
func Step(s *State, mem Memory, io IO) {
	t := 4 // M1 fetch minimum
	op := mem.Read(s.PC)
	s.PC++

	t += dispatch(s, mem, io, op)
	s.Tstates += uint64(t)
}

// fetch8 reads the immediate byte operand following the opcode.
func fetch8(s *State, mem Memory) uint8 {
	v := mem.Read(s.PC)
	s.PC++
	return v
}

// fetch16 reads the immediate word operand following the opcode, low byte
// first, advancing PC past both bytes.
func fetch16(s *State, mem Memory) uint16 {
	lo := mem.Read(s.PC)
	s.PC++
	hi := mem.Read(s.PC)
	s.PC++
	return uint16(lo) | uint16(hi)<<8
}

func push16(s *State, mem Memory, v uint16) {
	s.SP--
	mem.Write(s.SP, uint8(v>>8))
	s.SP--
	mem.Write(s.SP, uint8(v))
}

func pop16(s *State, mem Memory) uint16 {
	lo := mem.Read(s.SP)
	s.SP++
	hi := mem.Read(s.SP)
	s.SP++
	return uint16(lo) | uint16(hi)<<8
}

// get8/set8 address the eight "register or memory" operand positions
// encoded in 3 bits: 0=B 1=C 2=D 3=E 4=H 5=L 6=M(memory at HL) 7=A.
func get8(s *State, mem Memory, code uint8) uint8 {
	switch code {
	case 0:
		return s.B
	case 1:
		return s.C
	case 2:
		return s.D
	case 3:
		return s.E
	case 4:
		return s.H
	case 5:
		return s.L
	case 6:
		return mem.Read(s.HL())
	default:
		return s.A
	}
}

func set8(s *State, mem Memory, code uint8, v uint8) {
	switch code {
	case 0:
		s.B = v
	case 1:
		s.C = v
	case 2:
		s.D = v
	case 3:
		s.E = v
	case 4:
		s.H = v
	case 5:
		s.L = v
	case 6:
		mem.Write(s.HL(), v)
	default:
		s.A = v
	}
}

// getRP/setRP address the 2-bit register-pair field of LXI, DAD, INX and
// DCX: 0=BC 1=DE 2=HL 3=SP.
func getRP(s *State, rp uint8) uint16 {
	switch rp {
	case 0:
		return s.BC()
	case 1:
		return s.DE()
	case 2:
		return s.HL()
	default:
		return s.SP
	}
}

func setRP(s *State, rp uint8, v uint16) {
	switch rp {
	case 0:
		s.SetBC(v)
	case 1:
		s.SetDE(v)
	case 2:
		s.SetHL(v)
	default:
		s.SP = v
	}
}

// testCond evaluates one of the eight condition codes against F.
func testCond(f uint8, cc uint8) bool {
	switch cc {
	case 0:
		return f&ZFlag == 0 // NZ
	case 1:
		return f&ZFlag != 0 // Z
	case 2:
		return f&CFlag == 0 // NC
	case 3:
		return f&CFlag != 0 // C
	case 4:
		return f&PFlag == 0 // PO
	case 5:
		return f&PFlag != 0 // PE
	case 6:
		return f&SFlag == 0 // P (sign positive)
	default:
		return f&SFlag != 0 // M (sign minus)
	}
}

// dispatch executes the opcode's effects and returns the T-states beyond the
// M1 minimum already charged by Step.
func dispatch(s *State, mem Memory, io IO, op uint8) int {
	switch {
	// --- NOP and its seven undocumented duplicate-opcode aliases ---
	case op == 0x00 || op == 0x08 || op == 0x10 || op == 0x18 ||
		op == 0x20 || op == 0x28 || op == 0x30 || op == 0x38:
		return 0

	// --- MOV r,r' (0x40-0x7F, except 0x76 = HLT) ---
	case op >= 0x40 && op <= 0x7F && op != 0x76:
		ddd := (op >> 3) & 7
		sss := op & 7
		v := get8(s, mem, sss)
		set8(s, mem, ddd, v)
		if ddd == 6 || sss == 6 {
			return 3 // MOV r,M / MOV M,r: 7 total
		}
		return 1 // MOV r,r: 5 total

	case op == 0x76: // HLT
		s.SetRunState(Halted)
		return 3

	// --- ALU A,r (0x80-0xBF) ---
	case op >= 0x80 && op <= 0xBF:
		sss := op & 7
		v := get8(s, mem, sss)
		switch (op >> 3) & 7 {
		case 0:
			execAdd(s, v)
		case 1:
			execAdc(s, v)
		case 2:
			execSub(s, v)
		case 3:
			execSbb(s, v)
		case 4:
			execAnd(s, v)
		case 5:
			execXor(s, v)
		case 6:
			execOr(s, v)
		case 7:
			execCmp(s, v)
		}
		if sss == 6 {
			return 3 // ALU A,M: 7 total
		}
		return 0 // ALU A,r: 4 total

	// --- INR r (00 ddd 100) ---
	case op&0xC7 == 0x04:
		ddd := (op >> 3) & 7
		if ddd == 6 {
			v := mem.Read(s.HL())
			execInr(s, &v)
			mem.Write(s.HL(), v)
			return 6 // INR M: 10 total
		}
		execInr(s, reg8Addr(s, ddd))
		return 1 // INR r: 5 total

	// --- DCR r (00 ddd 101) ---
	case op&0xC7 == 0x05:
		ddd := (op >> 3) & 7
		if ddd == 6 {
			v := mem.Read(s.HL())
			execDcr(s, &v)
			mem.Write(s.HL(), v)
			return 6 // DCR M: 10 total
		}
		execDcr(s, reg8Addr(s, ddd))
		return 1 // DCR r: 5 total

	// --- MVI r,n (00 ddd 110) ---
	case op&0xC7 == 0x06:
		ddd := (op >> 3) & 7
		n := fetch8(s, mem)
		set8(s, mem, ddd, n)
		if ddd == 6 {
			return 6 // MVI M,n: 10 total
		}
		return 3 // MVI r,n: 7 total

	// --- LXI rp,nn (00 rp0 001) ---
	case op&0xCF == 0x01:
		rp := (op >> 4) & 3
		setRP(s, rp, fetch16(s, mem))
		return 6 // LXI rp,nn: 10 total

	// --- DAD rp (00 rp1 001) ---
	case op&0xCF == 0x09:
		rp := (op >> 4) & 3
		execDad(s, getRP(s, rp))
		return 6 // DAD rp: 10 total

	// --- STAX B/D (0x02, 0x12) ---
	case op == 0x02:
		mem.Write(s.BC(), s.A)
		return 3
	case op == 0x12:
		mem.Write(s.DE(), s.A)
		return 3

	// --- LDAX B/D (0x0A, 0x1A) ---
	case op == 0x0A:
		s.A = mem.Read(s.BC())
		return 3
	case op == 0x1A:
		s.A = mem.Read(s.DE())
		return 3

	// --- INX rp (00 rp0 011) ---
	case op&0xCF == 0x03:
		rp := (op >> 4) & 3
		setRP(s, rp, getRP(s, rp)+1)
		return 1 // INX rp: 5 total

	// --- DCX rp (00 rp1 011) ---
	case op&0xCF == 0x0B:
		rp := (op >> 4) & 3
		setRP(s, rp, getRP(s, rp)-1)
		return 1 // DCX rp: 5 total

	// --- Rotate/special-A group (00 ddd 111) ---
	case op == 0x07:
		execRlc(s)
		return 0
	case op == 0x0F:
		execRrc(s)
		return 0
	case op == 0x17:
		execRal(s)
		return 0
	case op == 0x1F:
		execRar(s)
		return 0
	case op == 0x27:
		execDaa(s)
		return 0
	case op == 0x2F:
		execCma(s)
		return 0
	case op == 0x37:
		execStc(s)
		return 0
	case op == 0x3F:
		execCmc(s)
		return 0

	// --- Direct-address loads/stores ---
	case op == 0x22: // SHLD nn
		addr := fetch16(s, mem)
		mem.Write(addr, s.L)
		mem.Write(addr+1, s.H)
		return 12 // SHLD: 16 total
	case op == 0x2A: // LHLD nn
		addr := fetch16(s, mem)
		s.L = mem.Read(addr)
		s.H = mem.Read(addr + 1)
		return 12 // LHLD: 16 total
	case op == 0x32: // STA nn
		addr := fetch16(s, mem)
		mem.Write(addr, s.A)
		return 9 // STA: 13 total
	case op == 0x3A: // LDA nn
		addr := fetch16(s, mem)
		s.A = mem.Read(addr)
		return 9 // LDA: 13 total

	// --- Immediate ALU A,n ---
	case op == 0xC6:
		execAdd(s, fetch8(s, mem))
		return 3
	case op == 0xCE:
		execAdc(s, fetch8(s, mem))
		return 3
	case op == 0xD6:
		execSub(s, fetch8(s, mem))
		return 3
	case op == 0xDE:
		execSbb(s, fetch8(s, mem))
		return 3
	case op == 0xE6:
		execAnd(s, fetch8(s, mem))
		return 3
	case op == 0xEE:
		execXor(s, fetch8(s, mem))
		return 3
	case op == 0xF6:
		execOr(s, fetch8(s, mem))
		return 3
	case op == 0xFE:
		execCmp(s, fetch8(s, mem))
		return 3

	// --- PUSH rp2 / POP rp2 (rp2: 0=BC 1=DE 2=HL 3=PSW) ---
	case op&0xCF == 0xC5:
		rp := (op >> 4) & 3
		push16(s, mem, getRP2(s, rp))
		return 7 // PUSH rp: 11 total
	case op&0xCF == 0xC1:
		rp := (op >> 4) & 3
		setRP2(s, rp, pop16(s, mem))
		return 6 // POP rp: 10 total

	// --- Unconditional jump/call/return ---
	case op == 0xC3 || op == 0xCB: // JMP nn (0xCB aliases JMP)
		s.PC = fetch16(s, mem)
		return 6 // 10 total
	case op == 0xCD || op == 0xDD || op == 0xED || op == 0xFD: // CALL nn (+ aliases)
		nn := fetch16(s, mem)
		push16(s, mem, s.PC)
		s.PC = nn
		return 13 // 17 total
	case op == 0xC9 || op == 0xD9: // RET (0xD9 aliases RET)
		s.PC = pop16(s, mem)
		return 6 // 10 total

	// --- Conditional jump/call/return (11 ccc ...) ---
	case op&0xC7 == 0xC2: // Jcc nn
		cc := (op >> 3) & 7
		nn := fetch16(s, mem)
		if testCond(s.F, cc) {
			s.PC = nn
		}
		return 6 // always 10 total
	case op&0xC7 == 0xC4: // Ccc nn
		cc := (op >> 3) & 7
		nn := fetch16(s, mem)
		if testCond(s.F, cc) {
			push16(s, mem, s.PC)
			s.PC = nn
			return 13 // taken: 17 total
		}
		return 7 // untaken: 11 total
	case op&0xC7 == 0xC0: // Rcc
		cc := (op >> 3) & 7
		if testCond(s.F, cc) {
			s.PC = pop16(s, mem)
			return 7 // taken: 11 total
		}
		return 1 // untaken: 5 total

	// --- RST k ---
	case op&0xC7 == 0xC7:
		k := (op >> 3) & 7
		push16(s, mem, s.PC)
		s.PC = uint16(k) * 8
		return 7 // 11 total

	// --- I/O ---
	case op == 0xD3: // OUT n
		n := fetch8(s, mem)
		io.Out(n, n, s.A)
		return 6
	case op == 0xDB: // IN n
		n := fetch8(s, mem)
		s.A = io.In(n, n)
		return 6

	// --- Exchanges / stack-HL ---
	case op == 0xE3: // XTHL
		lo := mem.Read(s.SP)
		hi := mem.Read(s.SP + 1)
		mem.Write(s.SP, s.L)
		mem.Write(s.SP+1, s.H)
		s.L, s.H = lo, hi
		return 14 // 18 total
	case op == 0xEB: // XCHG
		s.D, s.H = s.H, s.D
		s.E, s.L = s.L, s.E
		return 0
	case op == 0xE9: // PCHL
		s.PC = s.HL()
		return 1
	case op == 0xF9: // SPHL
		s.SP = s.HL()
		return 1

	// --- Interrupt mask ---
	case op == 0xF3: // DI
		s.IFF = IFFDisabled
		return 0
	case op == 0xFB: // EI
		s.IFF = IFFEnabled
		return 0

	default:
		// Unreachable: all 256 opcode bytes are classified above. Per
		// spec.md §7, an unmapped opcode must not panic; treat as NOP.
		return 0
	}
}

// reg8Addr returns a pointer to the named 8-bit register for codes 0..5,7
// (code 6, memory, is handled separately by callers since it needs a Memory
// round-trip rather than a direct pointer).
func reg8Addr(s *State, code uint8) *uint8 {
	switch code {
	case 0:
		return &s.B
	case 1:
		return &s.C
	case 2:
		return &s.D
	case 3:
		return &s.E
	case 4:
		return &s.H
	case 5:
		return &s.L
	default:
		return &s.A
	}
}

// getRP2/setRP2 address PUSH/POP's register-pair field, where rp=3 selects
// PSW (A:F) rather than SP.
func getRP2(s *State, rp uint8) uint16 {
	if rp == 3 {
		return s.PSW()
	}
	return getRP(s, rp)
}

func setRP2(s *State, rp uint8, v uint16) {
	if rp == 3 {
		s.SetPSW(v)
		return
	}
	setRP(s, rp, v)
}
