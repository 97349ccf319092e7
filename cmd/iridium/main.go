// Command iridium assembles and runs programs for the iridium virtual
// machine, and provides an interactive shell.
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

func main() {
	code := 0

	err := rootCmd.Execute()
	if err != nil {
		if debug {
			fmt.Fprintf(os.Stderr, "%v: %+v\n", rootCmd.Name(), err)
		} else {
			fmt.Fprintf(os.Stderr, "%v: %v\n", rootCmd.Name(), err)
		}
		code = 1
	}

	atexit.Exit(code)
}
