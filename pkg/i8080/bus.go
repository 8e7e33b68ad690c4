package i8080

// Memory is the abstract byte-addressable 64 KiB space the core fetches
// opcodes and operands from, and reads/writes for load/store and stack
// operations. Both methods are total: there is no failure mode visible to
// the CPU (spec.md §4.2).
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// IO is the abstract 256-entry port space consulted by IN/OUT. The 8080
// emits the port number on both halves of the address bus during port
// instructions; both port arguments are always equal (spec.md §3, §6).
type IO interface {
	In(port, addrLowCopy uint8) uint8
	Out(port, addrLowCopy, value uint8)
}
