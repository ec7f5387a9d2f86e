package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type seedFlags struct {
	fixtureSeed uint64
	jobs        int
	candidates  int
	assessments int
}

func newSeedCmd(root *rootFlags) *cobra.Command {
	f := &seedFlags{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty store with demo data",
		Long: `Generate jobs, candidates and assessments into an empty store.

Seeding is skipped when the store already holds jobs. Use --fixture-seed to
make the generated data reproducible.`,
		Example: `  talentflow seed --db ./dev.db
  talentflow seed --fixture-seed 42 --candidates 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Seed.Enabled = true
			setFlag(cmd, cfg, "fixture-seed", "seed.fixtureSeed", func() { cfg.Seed.FixtureSeed = f.fixtureSeed })
			setFlag(cmd, cfg, "jobs", "seed.jobs", func() { cfg.Seed.Jobs = f.jobs })
			setFlag(cmd, cfg, "candidates", "seed.candidates", func() { cfg.Seed.Candidates = f.candidates })
			setFlag(cmd, cfg, "assessments", "seed.assessments", func() { cfg.Seed.Assessments = f.assessments })

			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			res, err := a.seed(cmd.Context())
			if err != nil {
				return err
			}
			return root.printResult(cmd, res, func() {
				out := cmd.OutOrStdout()
				if res.Skipped {
					fmt.Fprintf(out, "Store %s already seeded; nothing to do\n", cfg.Storage.Path)
					return
				}
				fmt.Fprintf(out, "Seeded %s: %d jobs, %d candidates, %d assessments (%s)\n",
					cfg.Storage.Path, res.Jobs, res.Candidates, res.Assessments, res.Duration.Round(time.Millisecond))
			})
		},
	}

	cmd.Flags().Uint64Var(&f.fixtureSeed, "fixture-seed", 0, "Seed for reproducible fixtures (0 = random)")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "Number of jobs")
	cmd.Flags().IntVar(&f.candidates, "candidates", 0, "Number of candidates")
	cmd.Flags().IntVar(&f.assessments, "assessments", 0, "Number of assessments")
	return cmd
}
