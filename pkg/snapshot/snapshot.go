// Package snapshot persists a CPU State plus its RAM image so a run can be
// paused and resumed exactly, adapted from the teacher's gob-based
// checkpoint mechanism (pkg/result/checkpoint.go).
package snapshot

import (
	"encoding/gob"
	"os"

	"github.com/oisee/i8080emu/pkg/i8080"
)

// CPUImage is the gob-encodable projection of a State: every architectural
// field State exposes, plus the RunState it was captured in. State itself
// carries its run flag in a sync/atomic field gob cannot see, so Snapshot
// round-trips through this plain struct rather than State directly.
type CPUImage struct {
	A, F, B, C, D, E, H, L uint8
	PC, SP                 uint16
	IFF                    uint8
	Tstates                uint64
	Run                    i8080.RunState
}

// Snapshot bundles a captured CPU image with a full memory image.
type Snapshot struct {
	CPU CPUImage
	RAM [0x10000]byte
}

func init() {
	gob.Register(CPUImage{})
}

// Capture projects s and mem into a Snapshot.
func Capture(s *i8080.State, mem *[0x10000]byte) *Snapshot {
	snap := &Snapshot{
		CPU: CPUImage{
			A: s.A, F: s.F, B: s.B, C: s.C, D: s.D, E: s.E, H: s.H, L: s.L,
			PC: s.PC, SP: s.SP, IFF: s.IFF, Tstates: s.Tstates,
			Run: s.RunState(),
		},
	}
	snap.RAM = *mem
	return snap
}

// Restore writes snap's CPU image and RAM back into s and mem.
func Restore(snap *Snapshot, s *i8080.State, mem *[0x10000]byte) {
	c := snap.CPU
	s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L = c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L
	s.PC, s.SP, s.IFF, s.Tstates = c.PC, c.SP, c.IFF, c.Tstates
	s.SetRunState(c.Run)
	*mem = snap.RAM
}

// Save writes snap to path.
func Save(path string, snap *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(snap)
}

// Load reads a Snapshot previously written by Save.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var snap Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
