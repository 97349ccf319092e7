package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ezrec/iridium/asm"
)

// disasmCmd lists a binary image.
var disasmCmd = &cobra.Command{
	Use:   "disasm image",
	Short: "Disassemble a binary image",

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			err = errors.WithStack(err)
			return
		}

		err = asm.DisassembleImage(data, cmd.OutOrStdout())
		if err != nil {
			err = errors.Wrap(err, args[0])
		}

		return
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
