package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ezrec/iridium/asm"
)

var (
	asmOutput  string
	asmListing bool
)

// asmCmd assembles a source file into a binary image.
var asmCmd = &cobra.Command{
	Use:   "asm source",
	Short: "Assemble a source file into a binary image",
	Long: `Asm assembles one source file into a binary image, which 'iridium'
can load and run. The image is written next to the source, with a .bin
extension, unless -o is given.
`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		source := args[0]

		emu, err := newEmulator()
		if err != nil {
			return
		}

		err = load(emu, source)
		if err != nil {
			return
		}

		output := asmOutput
		if len(output) == 0 {
			output = strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
			if output == source {
				output += ".bin"
			}
		}

		err = os.WriteFile(output, emu.VM.Program, 0o644)
		if err != nil {
			err = errors.WithStack(err)
			return
		}

		logger.Info("assembled", zap.String("output", output), zap.Int("bytes", len(emu.VM.Program)))

		if asmListing {
			err = asm.DisassembleImage(emu.VM.Program, cmd.OutOrStdout())
		}

		return
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "Binary image to write")
	asmCmd.Flags().BoolVarP(&asmListing, "listing", "l", false, "Print a listing of the image")
	rootCmd.AddCommand(asmCmd)
}
