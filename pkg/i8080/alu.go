package i8080

// ALU helpers implementing the bit-level flag formulas from spec.md §4.4.
// Each takes the State to read/write A and F plus the (already-fetched)
// operand; callers select the operand (register, memory, or immediate).

// execAdd implements ADD: A <- A + value.
func execAdd(s *State, value uint8) {
	a := s.A
	r := a + value
	cout := (a & value) | ((a | value) &^ r)
	f := szpFlags[r]
	if cout&0x80 != 0 {
		f |= CFlag
	}
	if cout&0x08 != 0 {
		f |= HFlag
	}
	s.A = r
	s.F = f
}

// execAdc implements ADC: A <- A + value + C.
func execAdc(s *State, value uint8) {
	a := s.A
	cin := s.F & CFlag
	r := a + value + cin
	cout := (a & value) | ((a | value) &^ r)
	f := szpFlags[r]
	if cout&0x80 != 0 {
		f |= CFlag
	}
	if cout&0x08 != 0 {
		f |= HFlag
	}
	s.A = r
	s.F = f
}

// execSub implements SUB: A <- A - value.
func execSub(s *State, value uint8) {
	a := s.A
	r := a - value
	cout := (^a & value) | ((^a | value) & r)
	f := szpFlags[r]
	if cout&0x80 != 0 {
		f |= CFlag
	}
	if cout&0x08 == 0 {
		f |= HFlag // half-borrow is the complement of the internal half-carry-out
	}
	s.A = r
	s.F = f
}

// execSbb implements SBB: A <- A - value - C.
func execSbb(s *State, value uint8) {
	a := s.A
	cin := s.F & CFlag
	r := a - value - cin
	cout := (^a & value) | ((^a | value) & r)
	f := szpFlags[r]
	if cout&0x80 != 0 {
		f |= CFlag
	}
	if cout&0x08 == 0 {
		f |= HFlag
	}
	s.A = r
	s.F = f
}

// execCmp implements CMP: like execSub but discards the result.
func execCmp(s *State, value uint8) {
	a := s.A
	r := a - value
	cout := (^a & value) | ((^a | value) & r)
	f := szpFlags[r]
	if cout&0x80 != 0 {
		f |= CFlag
	}
	if cout&0x08 == 0 {
		f |= HFlag
	}
	s.F = f
}

// execAnd implements ANA/ANI: A <- A & value. The 8080's half-carry for AND
// is bit 3 of (a | value), not a constant.
func execAnd(s *State, value uint8) {
	a := s.A
	r := a & value
	f := szpFlags[r]
	if (a|value)&0x08 != 0 {
		f |= HFlag
	}
	s.A = r
	s.F = f
}

// execXor implements XRA/XRI: A <- A ^ value.
func execXor(s *State, value uint8) {
	s.A ^= value
	s.F = szpFlags[s.A]
}

// execOr implements ORA/ORI: A <- A | value.
func execOr(s *State, value uint8) {
	s.A |= value
	s.F = szpFlags[s.A]
}

// execInr implements INR reg: *reg <- *reg + 1. Carry preserved.
func execInr(s *State, reg *uint8) {
	p := *reg
	r := p + 1
	cout := (p & 1) | ((p | 1) &^ r)
	f := (s.F & CFlag) | szpFlags[r]
	if cout&0x08 != 0 {
		f |= HFlag
	}
	*reg = r
	s.F = f
}

// execDcr implements DCR reg: *reg <- *reg - 1. Carry preserved; H is
// computed by the subtraction formula (b=1) and then inverted.
func execDcr(s *State, reg *uint8) {
	p := *reg
	r := p - 1
	cout := (^p & 1) | ((^p | 1) & r)
	f := (s.F & CFlag) | szpFlags[r]
	if cout&0x08 == 0 {
		f |= HFlag
	}
	*reg = r
	s.F = f
}

// execDad implements DAD rp: HL <- HL + value. C is the carry out of bit 15;
// H is left undefined by specification (unchanged); S, Z, P unchanged.
func execDad(s *State, value uint16) {
	hl := s.HL()
	sum := uint32(hl) + uint32(value)
	s.SetHL(uint16(sum))
	if sum&0x10000 != 0 {
		s.F |= CFlag
	} else {
		s.F &^= CFlag
	}
}

// execRlc implements RLC: C <- bit 7 of A; A rotates left by 1.
func execRlc(s *State) {
	c := s.A >> 7
	s.A = (s.A << 1) | c
	setCarry(s, c != 0)
}

// execRrc implements RRC: C <- bit 0 of A; A rotates right by 1.
func execRrc(s *State) {
	c := s.A & 1
	s.A = (s.A >> 1) | (c << 7)
	setCarry(s, c != 0)
}

// execRal implements RAL: A rotates left through carry.
func execRal(s *State) {
	oldC := s.F & CFlag
	newC := s.A >> 7
	s.A = (s.A << 1) | oldC
	setCarry(s, newC != 0)
}

// execRar implements RAR: A rotates right through carry.
func execRar(s *State) {
	oldC := s.F & CFlag
	newC := s.A & 1
	s.A = (s.A >> 1) | (oldC << 7)
	setCarry(s, newC != 0)
}

// execCma implements CMA: A <- ~A. Flags unchanged.
func execCma(s *State) {
	s.A = ^s.A
}

// execCmc implements CMC: C <- !C. Other flags unchanged.
func execCmc(s *State) {
	s.F ^= CFlag
}

// execStc implements STC: C <- 1. Other flags unchanged.
func execStc(s *State) {
	s.F |= CFlag
}

// execDaa implements DAA, the BCD decimal-adjust.
func execDaa(s *State) {
	a := s.A
	priorC := s.F & CFlag
	var p uint8
	if a&0x0F > 9 || s.F&HFlag != 0 {
		p |= 0x06
	}
	if a > 0x99 || priorC != 0 {
		p |= 0x60
	}
	forceCarry := a > 0x99 || priorC != 0
	execAdd(s, p) // H, S, Z, P come from the ADD's normal flag computation
	setCarry(s, forceCarry)
}

func setCarry(s *State, set bool) {
	if set {
		s.F |= CFlag
	} else {
		s.F &^= CFlag
	}
}
