// Command mos6502 is a minimal host driver around the cpu package: load
// a raw binary image into memory at a base address, run it to a BRK
// sentinel, and print the resulting register state — or launch the
// interactive step debugger over the same image.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tommypop2/mos-6502-emulator/cpu"
	"github.com/Tommypop2/mos-6502-emulator/internal/debugger"
)

func main() {
	var base uint16
	var maxSteps int

	rootCmd := &cobra.Command{
		Use:   "mos6502",
		Short: "MOS 6502 instruction-level emulator core",
	}

	runCmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load a raw binary image and execute it to a BRK sentinel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadImage(args[0], base)
			if err != nil {
				return err
			}

			for i := 0; i < maxSteps; i++ {
				if c.PeekOpcode() == 0x00 {
					break
				}
				if err := c.Step(); err != nil {
					return fmt.Errorf("step %d: %w", i, err)
				}
			}

			snap := c.Snapshot()
			fmt.Printf("PC=%04X A=%02X X=%02X Y=%02X S=%02X P=%08b\n",
				snap.PC, snap.A, snap.X, snap.Y, snap.S, snap.P)
			return nil
		},
	}
	runCmd.Flags().Uint16Var(&base, "base", 0x1000, "load address for the image")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "step budget before giving up on reaching BRK")

	debugCmd := &cobra.Command{
		Use:   "debug [image]",
		Short: "Load a raw binary image and step through it in an interactive TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadImage(args[0], base)
			if err != nil {
				return err
			}
			return debugger.Run(c)
		},
	}
	debugCmd.Flags().Uint16Var(&base, "base", 0x1000, "load address for the image")

	rootCmd.AddCommand(runCmd, debugCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// loadImage reads a raw binary file and builds a CPU over a flat memory
// image with the file's bytes placed at base and PC pointed at base.
func loadImage(path string, base uint16) (*cpu.CPU, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	mem := cpu.NewFlatMemory()
	mem.WriteSlice(base, data)

	c := cpu.New(mem)
	c.PC = base
	return c, nil
}
