// Package memio provides a flat reference Memory and IO implementation for
// the i8080 core: a plain 64 KiB byte array and a 256-entry port array. The
// 8080 has no segmented address space of its own — that structure, when it
// exists, is imposed by the board the chip sits on — so unlike a
// console emulator's banked memory map this is intentionally undifferentiated.
package memio

// RAM is a flat 64 KiB address space satisfying i8080.Memory.
type RAM [0x10000]byte

// Read returns the byte at addr.
func (r *RAM) Read(addr uint16) uint8 { return r[addr] }

// Write stores value at addr.
func (r *RAM) Write(addr uint16, value uint8) { r[addr] = value }

// Load copies program into RAM starting at addr.
func (r *RAM) Load(addr uint16, program []byte) {
	copy(r[int(addr):], program)
}

// Ports is a flat 256-entry IO space satisfying i8080.IO. Out writes are
// recorded per-port so a caller can observe what the program last sent
// without wiring a device behind every port.
type Ports struct {
	in  [256]uint8
	out [256]uint8
}

// In returns the last value staged for port via SetIn, ignoring the address
// bus's low-byte copy (spec.md §3: both port arguments are always equal).
func (p *Ports) In(port, _ uint8) uint8 { return p.in[port] }

// Out records value as the last byte written to port.
func (p *Ports) Out(port, _, value uint8) { p.out[port] = value }

// SetIn stages the value port.In will return on its next read.
func (p *Ports) SetIn(port, value uint8) { p.in[port] = value }

// LastOut returns the last value written to port by an OUT instruction.
func (p *Ports) LastOut(port uint8) uint8 { return p.out[port] }
