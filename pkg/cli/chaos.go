package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/talentflow/pkg/chaos"
	"github.com/getmockd/talentflow/pkg/cli/internal/output"
)

func newChaosCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chaos",
		Short: "Inspect latency and fault injection profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "profiles",
		Short: "List built-in chaos profiles",
		Long: `List the named profiles accepted by --chaos and chaos.profile.

A profile replaces the inline chaos settings of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles := chaos.ListProfiles()
			return root.printResult(cmd, profiles, func() {
				tw := output.Table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "NAME\tLATENCY\tWRITE FAILURES\tDESCRIPTION")
				for _, p := range profiles {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, latencyColumn(p.Config), faultColumn(p.Config), p.Description)
				}
				_ = tw.Flush()
			})
		},
	})
	return cmd
}

func latencyColumn(c chaos.Config) string {
	if !c.Enabled || c.Latency == nil {
		return "-"
	}
	return c.Latency.Min + "-" + c.Latency.Max
}

func faultColumn(c chaos.Config) string {
	if !c.Enabled || c.ErrorRate == nil || c.ErrorRate.Probability == 0 {
		return "-"
	}
	status := c.ErrorRate.StatusCode
	if status == 0 {
		status = chaos.DefaultErrorStatus
	}
	return fmt.Sprintf("%.0f%% (%d)", c.ErrorRate.Probability*100, status)
}
