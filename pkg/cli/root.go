package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/talentflow/pkg/cli/internal/output"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configFile string
	db         string
	logLevel   string
	jsonOutput bool
}

// NewRootCmd builds the talentflow command tree.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "talentflow",
		Short: "talentflow is a simulated hiring backend",
		Long: `talentflow serves a simulated hiring API (jobs, candidates, assessments)
backed by a local SQLite store, with injectable latency and write failures.

Configuration can be provided via a config file (--config or TALENTFLOW_CONFIG),
a .env file, TALENTFLOW_* environment variables, or flags.`,
		// No Run function here means 'talentflow' with no args will print help text by default.
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "Path to config file (.yaml, .toml or .json)")
	pf.StringVar(&f.db, "db", "", "Entity store path (overrides storage.path)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&f.jsonOutput, "json", false, "Output command results in JSON format")

	rootCmd.AddCommand(
		newServeCmd(f),
		newSeedCmd(f),
		newCallCmd(f),
		newOpenAPICmd(f),
		newConfigCmd(f),
		newChaosCmd(f),
		newVersionCmd(f),
	)
	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. textFn is called only in text mode.
func (f *rootFlags) printResult(cmd *cobra.Command, data any, textFn func()) error {
	if f.jsonOutput {
		return output.JSON(cmd.OutOrStdout(), data)
	}
	textFn()
	return nil
}
