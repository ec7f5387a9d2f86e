package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/talentflow/pkg/chaos"
	"github.com/getmockd/talentflow/pkg/dispatch"
	"github.com/getmockd/talentflow/pkg/mutation"
	"github.com/getmockd/talentflow/pkg/responselog"
	"github.com/getmockd/talentflow/pkg/store/sqlite"
)

func newOpenAPICmd(_ *rootFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI description of the simulated API",
		Example: `  talentflow openapi > talentflow.openapi.json
  talentflow openapi --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := renderOpenAPI(cmd, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}

// renderOpenAPI describes the route table of a throwaway in-memory
// dispatcher; the description does not depend on stored data.
func renderOpenAPI(cmd *cobra.Command, format string) ([]byte, error) {
	ctx := cmd.Context()
	s, err := sqlite.Open(ctx, sqlite.Config{Path: ":memory:"})
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()
	rl, err := responselog.Open(ctx, responselog.Config{Path: ":memory:"})
	if err != nil {
		return nil, err
	}
	defer func() { _ = rl.Close() }()

	router, err := mutation.New(mutation.Config{Store: s, Responses: rl})
	if err != nil {
		return nil, err
	}
	d, err := dispatch.New(dispatch.Config{Store: s, Router: router, Policy: chaos.None})
	if err != nil {
		return nil, err
	}
	doc, err := d.OpenAPI(Version)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return append(data, '\n'), nil
	case "yaml", "yml":
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(generic)
	default:
		return nil, fmt.Errorf("unsupported format %q: want json or yaml", format)
	}
}
