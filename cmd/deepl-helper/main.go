package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/SimonOfHH/deepl-helper/internal/cli"
	"github.com/SimonOfHH/deepl-helper/internal/logging"
	"github.com/SimonOfHH/deepl-helper/internal/models"
	"github.com/SimonOfHH/deepl-helper/internal/processor"
	"github.com/SimonOfHH/deepl-helper/internal/provider"
	"github.com/SimonOfHH/deepl-helper/internal/translation/openai"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	cli.ApplyConfig(cmd, flags)
	logging.Setup(flags.LogLevel, flags.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	parsed := cli.ParseArgs(args)

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetAPIKey(parsed, "openai"), "")
		return lister.PrintChatModels(ctx, os.Stdout, openai.DefaultModel)
	}

	apiKey := cli.GetAPIKey(parsed, flags.Provider)
	if apiKey == "" {
		return fmt.Errorf("you need to provide your %s API key (argument, %s or config file)",
			flags.Provider, provider.EnvVar(flags.Provider))
	}

	p, closer, err := provider.New(ctx, flags.ProviderConfig(apiKey))
	if err != nil {
		return err
	}
	defer closer.Close()

	proc := processor.NewProcessor(flags, p, os.Stdin, os.Stdout)
	return proc.Run(ctx, parsed.Choice, parsed.Filename)
}
