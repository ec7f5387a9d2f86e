package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/talentflow/pkg/cli/internal/output"
	"github.com/getmockd/talentflow/pkg/config"
)

// configSourceOutput is one line of `talentflow config --sources --json`.
type configSourceOutput struct {
	Key    string `json:"key"`
	Source string `json:"source"`
}

func newConfigCmd(root *rootFlags) *cobra.Command {
	var (
		format  string
		sources bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long: `Print the configuration after defaults, config file, .env, environment
variables and flags have been applied.

With --sources, list every key that was set explicitly and where it came from.`,
		Example: `  talentflow config
  talentflow config --format toml > talentflow.toml
  TALENTFLOW_DB=/tmp/x.db talentflow config --sources`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if sources {
				rows := make([]configSourceOutput, 0, len(cfg.Sources))
				for _, k := range cfg.SourceKeys() {
					rows = append(rows, configSourceOutput{Key: k, Source: cfg.Source(k)})
				}
				return root.printResult(cmd, rows, func() {
					if len(rows) == 0 {
						fmt.Fprintln(out, "All values are defaults")
						return
					}
					tw := output.Table(out)
					fmt.Fprintln(tw, "KEY\tSOURCE")
					for _, r := range rows {
						fmt.Fprintf(tw, "%s\t%s\n", r.Key, r.Source)
					}
					_ = tw.Flush()
				})
			}

			if root.jsonOutput {
				format = "json"
			}
			data, err := config.Marshal(cfg, format)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml, toml or json")
	cmd.Flags().BoolVar(&sources, "sources", false, "Show where each explicitly set value came from")
	return cmd
}
