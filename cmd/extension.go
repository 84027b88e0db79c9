package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Environment passed to the extensions.
const (
	EnvConfigFile = "FOLIO_CONFIG"
	EnvPortfolio  = "FOLIO_PORTFOLIO"
	EnvToday      = "FOLIO_TODAY"
)

// RunExtension attempts to find and execute an external folio-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	lp, err := exec.LookPath("folio-" + subcommand)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvPortfolio+"="+*portfolioName,
		EnvToday+"="+*todayFlag,
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", lp, err)
		return true, 1
	}
	return true, 0
}
