package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/noah-isme/study-planner-api/internal/cli"
	"github.com/noah-isme/study-planner-api/pkg/config"
	"github.com/noah-isme/study-planner-api/pkg/logger"
)

var CLI struct {
	Version kong.VersionFlag

	Calculate cli.CalculateCmd `cmd:"" help:"Compute study availability for a period."`
	Allocate  cli.AllocateCmd  `cmd:"" help:"Place study items into slots best-fit."`
	Validate  cli.ValidateCmd  `cmd:"" help:"Report overlapping plan items."`
	Adjust    cli.AdjustCmd    `cmd:"" help:"Shift new plan items past existing ones."`
	Token     cli.TokenCmd     `cmd:"" help:"Issue a development access token."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("plannerctl"),
		kong.Description("Study planner engine from the command line"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Diagnostics go to stderr so stdout stays machine-readable.
	cfg.Log.Format = "console"
	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync() //nolint:errcheck

	appCtx, err := cli.NewContext(cfg, logr, "study-planner-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
