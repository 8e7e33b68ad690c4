package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oisee/i8080emu/pkg/conform"
	"github.com/oisee/i8080emu/pkg/i8080"
	"github.com/oisee/i8080emu/pkg/memio"
	"github.com/oisee/i8080emu/pkg/snapshot"
)

// renderOperand substitutes catalog.go's "n"/"nn" immediate-operand
// placeholder with the actual operand bytes found at pc, the way the
// teacher's inst.Disassemble renders an Instruction's Imm field into its
// OpCode's mnemonic text.
func renderOperand(mnemonic string, length int, operand []byte) string {
	switch length {
	case 2:
		return strings.TrimSuffix(mnemonic, "n") + fmt.Sprintf("%02Xh", operand[0])
	case 3:
		nn := uint16(operand[1])<<8 | uint16(operand[0])
		return strings.TrimSuffix(mnemonic, "nn") + fmt.Sprintf("%04Xh", nn)
	default:
		return mnemonic
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "i8080",
		Short: "Intel 8080 core — run, conform-check, and disassemble ROM images",
	}

	var loadAddr uint16
	var startAddr uint16
	var maxSteps int
	var saveOut string

	runCmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load a raw binary image and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var mem memio.RAM
			var io memio.Ports
			mem.Load(loadAddr, data)

			var s i8080.State
			s.PC = startAddr
			s.SetRunState(i8080.Running)

			steps := 0
			for s.RunState() == i8080.Running {
				if maxSteps > 0 && steps >= maxSteps {
					fmt.Printf("stopped after %d steps (max-steps reached)\n", steps)
					break
				}
				i8080.Step(&s, &mem, &io)
				steps++
			}

			fmt.Printf("PC=%04X SP=%04X A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X\n",
				s.PC, s.SP, s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L)
			fmt.Printf("Tstates=%d RunState=%s\n", s.Tstates, s.RunState())

			if saveOut != "" {
				snap := snapshot.Capture(&s, (*[0x10000]byte)(&mem))
				if err := snapshot.Save(saveOut, snap); err != nil {
					return fmt.Errorf("saving snapshot: %w", err)
				}
				fmt.Printf("snapshot written to %s\n", saveOut)
			}
			return nil
		},
	}
	runCmd.Flags().Uint16Var(&loadAddr, "load-addr", 0x0000, "address to load the image at")
	runCmd.Flags().Uint16Var(&startAddr, "start-addr", 0x0000, "initial PC")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "stop after this many instructions (0 = unbounded)")
	runCmd.Flags().StringVar(&saveOut, "save", "", "write a snapshot to this path after the run stops")

	var numWorkers int
	conformCmd := &cobra.Command{
		Use:   "conform",
		Short: "Exercise every opcode byte against a fixed set of register vectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool := conform.NewPool(numWorkers)
			mismatches := pool.Run()
			checked, _ := pool.Stats()

			fmt.Printf("checked %d (opcode, vector) pairs\n", checked)
			if len(mismatches) == 0 {
				fmt.Println("no mismatches")
				return nil
			}
			for _, m := range mismatches {
				fmt.Printf("  opcode %#02x vector %d: %s: %s got %d, want %d\n",
					m.Op, m.Vector, m.Kind, m.Comment, m.Got, m.Want)
			}
			return fmt.Errorf("%d mismatches found", len(mismatches))
		},
	}
	conformCmd.Flags().IntVar(&numWorkers, "workers", 0, "number of workers (0 = NumCPU)")

	var dumpAddr uint16
	dumpCmd := &cobra.Command{
		Use:   "dump [image]",
		Short: "Disassemble a raw binary image using pkg/i8080/catalog.go, one instruction per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			for pc := 0; pc < len(data); {
				op := data[pc]
				n := i8080.Bytes(op)
				text := i8080.Mnemonic(op)
				if pc+n <= len(data) {
					text = renderOperand(text, n, data[pc+1:pc+n])
				}
				fmt.Printf("%04X  %s\n", int(dumpAddr)+pc, text)
				if pc+n > len(data) {
					fmt.Printf("; truncated instruction at end of image\n")
					break
				}
				pc += n
			}
			return nil
		},
	}
	dumpCmd.Flags().Uint16Var(&dumpAddr, "addr", 0x0000, "address to display as the origin of the image")

	resumeCmd := &cobra.Command{
		Use:   "resume [snapshot]",
		Short: "Resume execution from a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			var s i8080.State
			var mem memio.RAM
			snapshot.Restore(snap, &s, (*[0x10000]byte)(&mem))
			s.SetRunState(i8080.Running)

			var io memio.Ports
			i8080.Run(&s, &mem, &io)

			fmt.Printf("PC=%04X SP=%04X A=%02X F=%02X Tstates=%d RunState=%s\n",
				s.PC, s.SP, s.A, s.F, s.Tstates, s.RunState())
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, conformCmd, dumpCmd, resumeCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
