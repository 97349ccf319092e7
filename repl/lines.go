package repl

import (
	"bufio"
	"io"
)

// RunLines drives the shell from a line oriented reader, for input that
// is not a terminal.
func RunLines(sh *Shell, r io.Reader, w io.Writer) (err error) {
	scanner := bufio.NewScanner(r)

	_, err = io.WriteString(w, WELCOME+"\n"+PROMPT)
	if err != nil {
		return
	}

	for scanner.Scan() {
		output, quit := sh.Exec(scanner.Text())
		if quit {
			_, err = io.WriteString(w, output)
			return
		}
		_, err = io.WriteString(w, output+PROMPT)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	return
}
