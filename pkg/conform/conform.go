// Package conform is a concurrent conformance harness: it drives every
// opcode byte (including the undocumented aliases) from a fixed set of
// register-state vectors and checks the core's behavior against the
// catalog's declared T-state cost, and — for the ALU opcodes — against an
// independently-expressed reference flag formula. Adapted from the
// teacher's worker pool and test-vector verifier (pkg/search/worker.go,
// pkg/search/verifier.go).
package conform

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oisee/i8080emu/pkg/i8080"
	"github.com/oisee/i8080emu/pkg/memio"
)

// Vectors are fixed register states exercised against every opcode, in the
// style of the teacher's search.TestVectors.
var Vectors = []i8080.State{
	{},
	{A: 0xFF, B: 0xFF, C: 0xFF, D: 0xFF, E: 0xFF, H: 0xFF, L: 0xFF, SP: 0xFFFF},
	{A: 0x01, B: 0x02, C: 0x03, D: 0x04, E: 0x05, H: 0x06, L: 0x07, SP: 0x1234},
	{A: 0x80, F: i8080.CFlag, B: 0x40, C: 0x20, D: 0x10, E: 0x08, H: 0x04, L: 0x02, SP: 0x8000},
	{A: 0x55, B: 0xAA, C: 0x55, D: 0xAA, E: 0x55, H: 0xAA, L: 0x55, SP: 0x5555},
	{A: 0x99, F: i8080.HFlag, B: 0x55, C: 0xAA, D: 0x55, E: 0xAA, H: 0x55, L: 0xAA, SP: 0xAAAA},
}

// Mismatch describes one opcode's divergence from its catalog entry or from
// the independent ALU reference. Kind says what Want/Got hold: "tstate"
// means T-state counts; "alu-result" means values of A; "alu-flags" means
// flag bytes.
type Mismatch struct {
	Op      uint8
	Vector  int
	Kind    string
	Want    int
	Got     int
	Comment string
}

// Pool drives conformance checks across a bounded worker set, following the
// teacher's WorkerPool shape (pkg/search/worker.go): a job channel, a
// WaitGroup of workers, and atomic counters rather than a mutex-guarded
// running total.
type Pool struct {
	NumWorkers int
	checked    atomic.Int64
	mismatches atomic.Int64

	mu   sync.Mutex
	bad  []Mismatch
}

// NewPool creates a Pool with numWorkers workers, defaulting to NumCPU.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers}
}

// Stats returns the running totals.
func (p *Pool) Stats() (checked, mismatches int64) {
	return p.checked.Load(), p.mismatches.Load()
}

// Run exercises every opcode byte 0x00-0xFF against Vectors, concurrently,
// and returns every observed mismatch. A mismatch means either the core
// charged a different T-state count than the catalog declares (for the
// twelve undocumented alias bytes, the count of their documented twin), or
// an ALU-on-A opcode's A or flag byte differs from referenceALU.
func (p *Pool) Run() []Mismatch {
	ch := make(chan uint8, 256)
	for op := 0; op < 256; op++ {
		ch <- uint8(op)
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for op := range ch {
				p.checkOpcode(op)
			}
		}()
	}
	wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Mismatch(nil), p.bad...)
}

func (p *Pool) checkOpcode(op uint8) {
	for vi, vec := range Vectors {
		p.checked.Add(1)

		var mem memio.RAM
		var io memio.Ports
		s := vec
		s.SetRunState(i8080.Running)
		s.PC = 0x0100
		mem.Write(0x0100, op)
		// Provide operand bytes for every opcode length so multi-byte forms
		// don't read uninitialized memory as a second opcode.
		mem.Write(0x0101, 0x00)
		mem.Write(0x0102, 0x00)

		want := expectedTStates(op, vec.F)

		preA := s.A
		before := s.Tstates
		i8080.Step(&s, &mem, &io)
		got := int(s.Tstates - before)

		if got != want {
			p.record(Mismatch{
				Op: op, Vector: vi, Kind: "tstate", Want: want, Got: got,
				Comment: i8080.Mnemonic(canonicalOpcode(op)),
			})
		}

		if selector, value, cin, ok := aluOperand(op, preA, vec); ok {
			wantA, wantF := referenceALU(selector, preA, value, cin)
			if selector != 7 && s.A != wantA { // CMP (selector 7) discards A
				p.record(Mismatch{
					Op: op, Vector: vi, Kind: "alu-result", Want: int(wantA), Got: int(s.A),
					Comment: i8080.Mnemonic(op) + " result",
				})
			}
			if s.F != wantF {
				p.record(Mismatch{
					Op: op, Vector: vi, Kind: "alu-flags", Want: int(wantF), Got: int(s.F),
					Comment: i8080.Mnemonic(op) + " flags",
				})
			}
		}
	}
}

func (p *Pool) record(m Mismatch) {
	p.mismatches.Add(1)
	p.mu.Lock()
	p.bad = append(p.bad, m)
	p.mu.Unlock()
}

// aluOperand identifies whether op is one of the 72 ALU-on-A opcodes
// (register/memory form 0x80-0xBF, or immediate form 0xC6/CE/D6/DE/E6/EE/F6/
// FE) and, if so, returns the ALU selector (0=ADD..7=CMP), the right-hand
// operand value for vector vec, and the incoming carry ADC/SBB read.
func aluOperand(op uint8, a uint8, vec i8080.State) (selector, value, cin uint8, ok bool) {
	cin = vec.F & i8080.CFlag
	switch {
	case op >= 0x80 && op <= 0xBF:
		selector = (op >> 3) & 7
		switch op & 7 {
		case 0:
			value = vec.B
		case 1:
			value = vec.C
		case 2:
			value = vec.D
		case 3:
			value = vec.E
		case 4:
			value = vec.H
		case 5:
			value = vec.L
		case 6:
			value = 0x00 // M operand is memory at HL; vectors leave it at 0
		default:
			value = a
		}
		return selector, value, cin, true
	case op == 0xC6 || op == 0xCE || op == 0xD6 || op == 0xDE ||
		op == 0xE6 || op == 0xEE || op == 0xF6 || op == 0xFE:
		return (op >> 3) & 7, 0x00, cin, true // immediate operand byte is 0x00 in the probe
	default:
		return 0, 0, 0, false
	}
}

// referenceALU computes the 8080 ALU-on-A result and flag byte for selector
// (0=ADD,1=ADC,2=SUB,3=SBB,4=AND,5=XOR,6=OR,7=CMP) independently of
// pkg/i8080/alu.go: nibble-wise half-carry/borrow and a widened-arithmetic
// carry/borrow, rather than the core's cout bit-trick, and a bit-counting
// parity rather than a precomputed table.
func referenceALU(selector, a, value, cin uint8) (result, flags uint8) {
	add := func(c uint8) (uint8, uint8) {
		sum := int(a) + int(value) + int(c)
		h := (a&0x0F)+(value&0x0F)+c > 0x0F
		return uint8(sum), packFlags(uint8(sum), h, sum > 0xFF)
	}
	sub := func(c uint8) (uint8, uint8) {
		diff := int(a) - int(value) - int(c)
		noBorrowLo := int(a&0x0F) >= int(value&0x0F)+int(c)
		return uint8(diff), packFlags(uint8(diff), noBorrowLo, diff < 0)
	}
	switch selector {
	case 0:
		return add(0)
	case 1:
		return add(cin)
	case 2:
		return sub(0)
	case 3:
		return sub(cin)
	case 4:
		r := a & value
		return r, packFlags(r, (a|value)&0x08 != 0, false)
	case 5:
		r := a ^ value
		return r, packFlags(r, false, false)
	case 6:
		r := a | value
		return r, packFlags(r, false, false)
	default: // CMP: flags from the subtraction, A unaffected
		_, f := sub(0)
		return a, f
	}
}

// packFlags builds an S/Z/H/P/C flag byte from a result and two already-
// decided carry-family bits, counting parity bit-by-bit rather than via a
// lookup table.
func packFlags(result uint8, half, carry bool) uint8 {
	var f uint8
	if result&0x80 != 0 {
		f |= i8080.SFlag
	}
	if result == 0 {
		f |= i8080.ZFlag
	}
	ones := 0
	for b := result; b != 0; b >>= 1 {
		ones += int(b & 1)
	}
	if ones%2 == 0 {
		f |= i8080.PFlag
	}
	if half {
		f |= i8080.HFlag
	}
	if carry {
		f |= i8080.CFlag
	}
	return f
}

// expectedTStates returns the T-state cost op must charge starting from flag
// byte f. Conditional jump/call/return costs depend on whether the branch is
// taken, which the catalog (a per-opcode, flag-independent table) only
// records as the untaken case for Ccc/Rcc, so those three families are
// special-cased here rather than read out of Catalog.
func expectedTStates(op, f uint8) int {
	switch {
	case op&0xC7 == 0xC2: // Jcc: always 10, taken or not
		return 10
	case op&0xC7 == 0xC4: // Ccc
		if testCond(f, (op>>3)&7) {
			return 17
		}
		return 11
	case op&0xC7 == 0xC0: // Rcc
		if testCond(f, (op>>3)&7) {
			return 11
		}
		return 5
	default:
		return i8080.TStates(canonicalOpcode(op))
	}
}

// testCond mirrors the core's unexported condition-code evaluation
// (pkg/i8080/exec.go) using only the exported flag constants.
func testCond(f uint8, cc uint8) bool {
	switch cc {
	case 0:
		return f&i8080.ZFlag == 0
	case 1:
		return f&i8080.ZFlag != 0
	case 2:
		return f&i8080.CFlag == 0
	case 3:
		return f&i8080.CFlag != 0
	case 4:
		return f&i8080.PFlag == 0
	case 5:
		return f&i8080.PFlag != 0
	case 6:
		return f&i8080.SFlag == 0
	default:
		return f&i8080.SFlag != 0
	}
}

// canonicalOpcode maps an undocumented alias to the documented opcode whose
// T-state cost it must match (spec.md §4.4).
func canonicalOpcode(op uint8) uint8 {
	switch op {
	case 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38:
		return 0x00 // NOP
	case 0xCB:
		return 0xC3 // JMP nn
	case 0xD9:
		return 0xC9 // RET
	case 0xDD, 0xED, 0xFD:
		return 0xCD // CALL nn
	default:
		return op
	}
}
