package i8080

import "sync/atomic"

// RunState is the tri-state execution status of a State.
type RunState int32

const (
	Running RunState = iota
	Halted
	Interrupted
)

func (r RunState) String() string {
	switch r {
	case Running:
		return "Running"
	case Halted:
		return "Halted"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}

// IFF values for the interrupt flip-flop mask state.
const (
	IFFDisabled uint8 = 0
	IFFEnabled  uint8 = 3
)

// State is the architectural register file of an 8080. It is a flat,
// cheaply-copyable value; the Execution Engine is the only mutator.
type State struct {
	A, F, B, C, D, E, H, L uint8
	PC, SP                 uint16
	IFF                    uint8
	Tstates                uint64

	// run is the externally-observable RunState. It is stored as an
	// atomic.Int32 rather than a plain RunState field because an
	// asynchronous break-signal caller may write Interrupted while the
	// execution loop concurrently reads it between instructions (see
	// spec.md §5); no other field in State is shared across goroutines.
	run atomic.Int32
}

// RandSource supplies the pseudo-random bytes used to fill power-on state.
// Callers typically pass a seeded math/rand.Rand's Intn, or a crypto source;
// the core makes no assumption about the quality of the randomness.
type RandSource interface {
	Intn(n int) int
}

// Init sets s to its power-on state: PC = 0, SP and the general registers
// drawn from rng (silicon power-on is not zero), IFF disabled, RunState
// Running, Tstates 0.
func Init(s *State, rng RandSource) {
	s.PC = 0
	s.SP = randWord(rng)
	s.A = randByte(rng)
	s.B = randByte(rng)
	s.C = randByte(rng)
	s.D = randByte(rng)
	s.E = randByte(rng)
	s.H = randByte(rng)
	s.L = randByte(rng)
	s.F = randByte(rng) &^ (XFlag | YFlag)
	s.IFF = IFFDisabled
	s.Tstates = 0
	s.run.Store(int32(Running))
}

func randByte(rng RandSource) uint8 { return uint8(rng.Intn(256)) }
func randWord(rng RandSource) uint16 {
	return uint16(rng.Intn(256)) | uint16(rng.Intn(256))<<8
}

// RunState returns the current run state. Safe to call concurrently with
// the execution loop.
func (s *State) RunState() RunState { return RunState(s.run.Load()) }

// SetRunState atomically assigns the run state. This is the only mutation a
// caller outside the Execution Engine is permitted to make to a State: the
// asynchronous break signal calls SetRunState(Interrupted).
func (s *State) SetRunState(r RunState) { s.run.Store(int32(r)) }

// BC returns the BC register pair.
func (s *State) BC() uint16 { return uint16(s.B)<<8 | uint16(s.C) }

// SetBC assigns the BC register pair.
func (s *State) SetBC(v uint16) { s.B, s.C = uint8(v>>8), uint8(v) }

// DE returns the DE register pair.
func (s *State) DE() uint16 { return uint16(s.D)<<8 | uint16(s.E) }

// SetDE assigns the DE register pair.
func (s *State) SetDE(v uint16) { s.D, s.E = uint8(v>>8), uint8(v) }

// HL returns the HL register pair.
func (s *State) HL() uint16 { return uint16(s.H)<<8 | uint16(s.L) }

// SetHL assigns the HL register pair.
func (s *State) SetHL(v uint16) { s.H, s.L = uint8(v>>8), uint8(v) }

// PSW returns the A:F register pair (A high, F low), as pushed by PUSH PSW.
func (s *State) PSW() uint16 { return uint16(s.A)<<8 | uint16(flagPushImage(s.F)) }

// SetPSW assigns A and F from a popped PSW value, masking X and Y to 0 to
// preserve the invariant that X = Y = 0 between instructions (spec.md §9,
// second open question).
func (s *State) SetPSW(v uint16) {
	s.A = uint8(v >> 8)
	s.F = uint8(v) &^ (XFlag | YFlag)
}

// flagPushImage produces the value PUSH PSW writes to memory for flag byte f:
// X and Y cleared, N forced to 1.
func flagPushImage(f uint8) uint8 {
	return (f &^ (YFlag | XFlag)) | NFlag
}
