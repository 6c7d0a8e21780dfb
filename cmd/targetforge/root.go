package main

import (
	"github.com/spf13/cobra"

	"github.com/shaniidev/targetforge/internal/compile"
	"github.com/shaniidev/targetforge/internal/config"
	"github.com/shaniidev/targetforge/internal/download"
	"github.com/shaniidev/targetforge/internal/pipeline"
	"github.com/shaniidev/targetforge/internal/ui"
)

// Swapped in tests.
var (
	newDeps    = pipeline.DefaultDeps
	lookupTool = compile.LookupTool
)

func newRootCmd() *cobra.Command {
	var configPath string
	flagCfg := config.NewConfig()

	cmd := &cobra.Command{
		Use:   "targetforge [flags] [url...]",
		Short: "Download stamp images and compile them into a targets file",
		Long: `Downloads each source image into a staging directory, runs the target
compiler (npx mindar-cli compile <images...> -o <output>) on the images that
were fetched, then removes the staging directory.

Sources come from the config file (-f) and from positional arguments.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			if configPath != "" {
				if err := cfg.LoadFile(configPath); err != nil {
					return err
				}
			}
			cfg.Merge(flagCfg, cmd.Flags())
			cfg.Sources = append(cfg.Sources, args...)
			return runBuild(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "f", "", "YAML config file")
	flagCfg.BindFlags(cmd.Flags())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func runBuild(cmd *cobra.Command, cfg *config.Config) error {
	ui.SetVerbose(cfg.Verbose)
	download.UserAgent = "targetforge/" + version

	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.SkipPreflight {
		path, err := lookupTool(cfg.Compiler)
		if err != nil {
			return err
		}
		ui.Debug("Using compiler %s", path)
	}

	ui.Println(ui.Bold+ui.Cyan, "TARGETFORGE ", version)
	ui.Info("Sources: %d", len(cfg.Sources))
	ui.Info("Output: %s", cfg.Output)

	result, err := pipeline.Run(cmd.Context(), cfg, newDeps(cfg))
	if err != nil {
		return err
	}

	ui.Success("Compiled %d/%d images into %s", len(result.Staged), len(cfg.Sources), result.Output)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("targetforge version %s\n", version)
		},
	}
}
