package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dd0wney/promptflow/pkg/cli"
)

// Set by -ldflags at release time.
var version = "dev"

func main() {
	cmd := cli.NewRootCommand(version, os.Getenv)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
