// Command wavescan stores and searches four-valued waveform traces.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/wavescan/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own diagnostics; report errors cobra raised
		// before a command ran, such as unknown flags.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
