package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/dd0wney/promptflow/pkg/adapter"
	"github.com/dd0wney/promptflow/pkg/cli"
	"github.com/dd0wney/promptflow/pkg/config"
	"github.com/dd0wney/promptflow/pkg/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load(os.Getenv("PROMPTFLOW_CONFIG"), os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	logger := cfg.Logger()
	settings := adapter.FromEnv(os.Getenv)

	// Sessions live as long as the warm execution environment.
	_, srv, err := cli.NewHandler(cfg, settings, logger, version)
	if err != nil {
		logger.Error("build handler", logging.Error(err))
		os.Exit(cli.ExitFailure)
	}

	h := adapter.NewLambdaHandler(adapter.StripPrefix(settings.Prefix, srv.Handler()))
	lambda.Start(h.Handle)
}
