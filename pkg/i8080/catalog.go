package i8080

// Info holds static per-opcode metadata used by diagnostics and disassembly:
// neither is consulted by Step/Run, which decode opcodes directly.
type Info struct {
	Mnemonic string
	Bytes    int // total encoded length including any immediate operand
	TStates  int // total T-states, base case (conditional ops: untaken cost)
}

// Catalog maps every one of the 256 primary opcode bytes to its Info,
// including the undocumented aliases (spec.md §4.4).
var Catalog [256]Info

var reg8Name = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}
var rpName = [4]string{"B", "D", "H", "SP"}
var rp2Name = [4]string{"B", "D", "H", "PSW"}
var ccName = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
var aluName = [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}

func init() {
	for op := 0; op < 256; op++ {
		Catalog[op] = Info{Mnemonic: "?", Bytes: 1, TStates: 4}
	}

	for _, op := range []int{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		Catalog[op] = Info{"NOP", 1, 4}
	}

	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue
		}
		ddd, sss := (op>>3)&7, op&7
		n := 5
		if ddd == 6 || sss == 6 {
			n = 7
		}
		Catalog[op] = Info{"MOV " + reg8Name[ddd] + "," + reg8Name[sss], 1, n}
	}
	Catalog[0x76] = Info{"HLT", 1, 7}

	for op := 0x80; op <= 0xBF; op++ {
		sss := op & 7
		n := 4
		if sss == 6 {
			n = 7
		}
		Catalog[op] = Info{aluName[(op>>3)&7] + " " + reg8Name[sss], 1, n}
	}

	for ddd := uint8(0); ddd < 8; ddd++ {
		op := 0x04 | (ddd << 3)
		n := 5
		if ddd == 6 {
			n = 10
		}
		Catalog[op] = Info{"INR " + reg8Name[ddd], 1, n}
		op = 0x05 | (ddd << 3)
		if ddd == 6 {
			n = 10
		} else {
			n = 5
		}
		Catalog[op] = Info{"DCR " + reg8Name[ddd], 1, n}
		op = 0x06 | (ddd << 3)
		n = 7
		if ddd == 6 {
			n = 10
		}
		Catalog[op] = Info{"MVI " + reg8Name[ddd] + ",n", 2, n}
	}

	for rp := uint8(0); rp < 4; rp++ {
		Catalog[0x01|(rp<<4)] = Info{"LXI " + rpName[rp] + ",nn", 3, 10}
		Catalog[0x09|(rp<<4)] = Info{"DAD " + rpName[rp], 1, 10}
		Catalog[0x03|(rp<<4)] = Info{"INX " + rpName[rp], 1, 5}
		Catalog[0x0B|(rp<<4)] = Info{"DCX " + rpName[rp], 1, 5}
		Catalog[0xC1|(rp<<4)] = Info{"POP " + rp2Name[rp], 1, 10}
		Catalog[0xC5|(rp<<4)] = Info{"PUSH " + rp2Name[rp], 1, 11}
	}
	Catalog[0x02] = Info{"STAX B", 1, 7}
	Catalog[0x12] = Info{"STAX D", 1, 7}
	Catalog[0x0A] = Info{"LDAX B", 1, 7}
	Catalog[0x1A] = Info{"LDAX D", 1, 7}

	Catalog[0x07] = Info{"RLC", 1, 4}
	Catalog[0x0F] = Info{"RRC", 1, 4}
	Catalog[0x17] = Info{"RAL", 1, 4}
	Catalog[0x1F] = Info{"RAR", 1, 4}
	Catalog[0x27] = Info{"DAA", 1, 4}
	Catalog[0x2F] = Info{"CMA", 1, 4}
	Catalog[0x37] = Info{"STC", 1, 4}
	Catalog[0x3F] = Info{"CMC", 1, 4}

	Catalog[0x22] = Info{"SHLD nn", 3, 16}
	Catalog[0x2A] = Info{"LHLD nn", 3, 16}
	Catalog[0x32] = Info{"STA nn", 3, 13}
	Catalog[0x3A] = Info{"LDA nn", 3, 13}

	immNames := map[uint8]string{0xC6: "ADI", 0xCE: "ACI", 0xD6: "SUI", 0xDE: "SBI",
		0xE6: "ANI", 0xEE: "XRI", 0xF6: "ORI", 0xFE: "CPI"}
	for op, name := range immNames {
		Catalog[op] = Info{name + " n", 2, 7}
	}

	for cc := uint8(0); cc < 8; cc++ {
		Catalog[0xC0|(cc<<3)] = Info{"R" + ccName[cc], 1, 5}
		Catalog[0xC2|(cc<<3)] = Info{"J" + ccName[cc] + " nn", 3, 10}
		Catalog[0xC4|(cc<<3)] = Info{"C" + ccName[cc] + " nn", 3, 11}
		Catalog[0xC7|(cc<<3)] = Info{"RST " + string(rune('0'+cc)), 1, 11}
	}

	Catalog[0xC3] = Info{"JMP nn", 3, 10}
	Catalog[0xCB] = Info{"JMP nn", 3, 10} // undocumented alias
	Catalog[0xCD] = Info{"CALL nn", 3, 17}
	Catalog[0xDD] = Info{"CALL nn", 3, 17} // undocumented alias
	Catalog[0xED] = Info{"CALL nn", 3, 17} // undocumented alias
	Catalog[0xFD] = Info{"CALL nn", 3, 17} // undocumented alias
	Catalog[0xC9] = Info{"RET", 1, 10}
	Catalog[0xD9] = Info{"RET", 1, 10} // undocumented alias

	Catalog[0xD3] = Info{"OUT n", 2, 10}
	Catalog[0xDB] = Info{"IN n", 2, 10}

	Catalog[0xE3] = Info{"XTHL", 1, 18}
	Catalog[0xEB] = Info{"XCHG", 1, 4}
	Catalog[0xE9] = Info{"PCHL", 1, 5}
	Catalog[0xF9] = Info{"SPHL", 1, 5}

	Catalog[0xF3] = Info{"DI", 1, 4}
	Catalog[0xFB] = Info{"EI", 1, 4}
}

// TStates returns the base T-state cost of an opcode byte (untaken cost for
// conditional jump/call/return forms).
func TStates(op uint8) int { return Catalog[op].TStates }

// Mnemonic returns the assembly mnemonic for an opcode byte.
func Mnemonic(op uint8) string { return Catalog[op].Mnemonic }

// Bytes returns the total encoded instruction length for an opcode byte.
func Bytes(op uint8) int { return Catalog[op].Bytes }
