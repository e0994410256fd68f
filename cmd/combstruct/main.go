// Command combstruct estimates modular construction costs.
package main

import (
	"errors"
	"os"

	"github.com/combstruct/combstruct/internal/cli"
	"github.com/combstruct/combstruct/pkg/version"
)

func main() {
	os.Exit(extractExitCode(run()))
}

func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}

// extractExitCode maps an execution error to a process exit code. Batch
// failures carry their own code; any other error exits with 1.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var batchErr *cli.BatchExitError
	if errors.As(err, &batchErr) {
		return batchErr.ExitCode
	}
	return 1
}
