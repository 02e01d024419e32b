// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opensbom-generator/nuget-licenses/internal/config"
	"github.com/opensbom-generator/nuget-licenses/pkg/modules"
)

var errUsage = errors.New("too few arguments")

type rootOptions struct {
	configFile     string
	project        string
	framework      string
	ignorePrefixes []string
	connections    int64
	workers        int
	commandTimeout time.Duration
	httpTimeout    time.Duration
	detect         bool
	verbose        bool
}

// newRootCommand builds the CLI; run receives the resolved manager config
func newRootCommand(run func(context.Context, modules.Config) error) *cobra.Command {
	opts := &rootOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "nuget-licenses [flags] PLATFORM TARGET_DIR",
		Short: "Collect the license texts of a project's NuGet dependencies",
		Long: `Lists the resolved NuGet packages of a project for the target framework
built for PLATFORM (android, ios, maccatalyst, ...), stores each package's
license text below TARGET_DIR and writes TARGET_DIR/license_list.json.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errUsage
			}
			return cobra.MaximumNArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}

			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			applyFlags(cmd, opts, &cfg)

			return run(cmd.Context(), modules.Config{
				Path:           cfg.Project,
				Platform:       args[0],
				Framework:      cfg.Framework,
				TargetDir:      args[1],
				IgnorePrefixes: cfg.IgnorePrefixes,
				CommandTimeout: time.Duration(cfg.CommandTimeout),
				Workers:        cfg.Workers,
				Connections:    cfg.Connections,
				HTTPTimeout:    time.Duration(cfg.HTTPTimeout),
				DetectLicenses: cfg.Detect(),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "TOML or YAML config file")
	flags.StringVarP(&opts.project, "project", "p", defaults.Project, "project, solution or directory to inspect")
	flags.StringVarP(&opts.framework, "framework", "f", "", "target framework, skips discovery from PLATFORM")
	flags.StringArrayVar(&opts.ignorePrefixes, "ignore-prefix", nil, "skip packages whose id starts with this prefix (repeatable)")
	flags.Int64Var(&opts.connections, "connections", defaults.Connections, "simultaneous outbound HTTP requests")
	flags.IntVar(&opts.workers, "workers", defaults.Workers, "packages processed at once")
	flags.DurationVar(&opts.commandTimeout, "command-timeout", time.Duration(defaults.CommandTimeout), "timeout of each dotnet invocation")
	flags.DurationVar(&opts.httpTimeout, "http-timeout", time.Duration(defaults.HTTPTimeout), "timeout of each HTTP request")
	flags.BoolVar(&opts.detect, "detect-licenses", defaults.Detect(), "identify license ids from copied and cached license files")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

// applyFlags lets explicitly set flags win over the config file
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("project") {
		cfg.Project = opts.project
	}
	if flags.Changed("framework") {
		cfg.Framework = opts.framework
	}
	if flags.Changed("ignore-prefix") {
		cfg.IgnorePrefixes = opts.ignorePrefixes
	}
	if flags.Changed("connections") {
		cfg.Connections = opts.connections
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("command-timeout") {
		cfg.CommandTimeout = config.Duration(opts.commandTimeout)
	}
	if flags.Changed("http-timeout") {
		cfg.HTTPTimeout = config.Duration(opts.httpTimeout)
	}
	if flags.Changed("detect-licenses") {
		cfg.DetectLicenses = &opts.detect
	}
	cfg.ApplyDefaults()
}

func runManager(ctx context.Context, cfg modules.Config) error {
	m, err := modules.New(cfg)
	if err != nil {
		return err
	}
	return m.Run(ctx)
}

// execute runs the CLI and returns the process exit status
func execute(ctx context.Context, args []string) int {
	cmd := newRootCommand(runManager)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		return modules.ExitCode(err)
	}
	return 0
}
