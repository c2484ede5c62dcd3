package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/cloud-ru/finance-engine-go/internal/cli"
	"github.com/cloud-ru/finance-engine-go/internal/config"
	"github.com/cloud-ru/finance-engine-go/internal/tools"
	"github.com/cloud-ru/finance-engine-go/internal/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cli.Register(commander, &cli.Env{
		Registry:  tools.NewRegistry(cfg, tracing.Tracer),
		Currency:  cfg.Currency,
		TaxPolicy: cfg.TaxPolicy,
		Out:       os.Stdout,
		Err:       os.Stderr,
	})

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
