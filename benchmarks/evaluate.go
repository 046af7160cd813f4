package benchmarks

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/WilliamYue37/LTMB/config"
	"github.com/WilliamYue37/LTMB/policies"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
	"github.com/spf13/cobra"
)

// Evaluate compares the expert against the random baseline on every task
// and saves the plots under savePath/<task>
func Evaluate(ctx context.Context, g config.Generation, savePath string) error {
	for _, spec := range g.Tasks {
		c := types.NewComparison(&types.ComparisonConfig{
			Episodes:   g.Episodes,
			Seed:       g.Seed,
			RecordPath: filepath.Join(savePath, spec.Name),
		})
		c.AddAnalysis("Outcome", types.NewOutcomeAnalyzer(), types.PrintComparator())
		c.AddAnalysis("Plots", types.NewOutcomeAnalyzer(), types.OutcomePlotter(filepath.Join(savePath, spec.Name)))

		expertEnv, err := tasks.New(spec.Name, spec.Config)
		if err != nil {
			return err
		}
		expert, err := policies.ExpertFor(spec.Name)
		if err != nil {
			return err
		}
		randomEnv, err := tasks.New(spec.Name, spec.Config)
		if err != nil {
			return err
		}

		c.AddExperiment(types.NewExperiment("Expert", expert, expertEnv))
		c.AddExperiment(types.NewExperiment("Random", types.NewSeededRandomPolicy(uint64(g.Seed)), randomEnv))

		logger.Printf("evaluating %s", tasks.ID(spec.Name))
		if err := c.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}

func EvaluateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Compare the expert oracles against a random policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := generationConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			stop, err := startProfiling()
			if err != nil {
				return err
			}
			defer stop()
			return Evaluate(ctx, g, saveFile)
		},
	}
}
