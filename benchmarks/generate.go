package benchmarks

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/WilliamYue37/LTMB/config"
	"github.com/WilliamYue37/LTMB/export"
	"github.com/WilliamYue37/LTMB/policies"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
	"github.com/WilliamYue37/LTMB/util"
	"github.com/spf13/cobra"
)

// generationConfig loads the YAML config if any; flags set on the command
// line take precedence
func generationConfig(cmd *cobra.Command) (config.Generation, error) {
	g := config.Default()
	if configFile != "" {
		var err error
		if g, err = config.Load(configFile); err != nil {
			return g, err
		}
	}
	if cmd.Flags().Changed("episodes") {
		g.Episodes = episodes
	}
	if cmd.Flags().Changed("seed") {
		g.Seed = seed
	}
	if cmd.Flags().Changed("save") {
		g.Export.Dir = saveFile
	}
	return g, g.Validate()
}

// newRecorder opens the sinks of the export spec
func newRecorder(spec config.ExportSpec) (*export.Recorder, error) {
	sinks := make([]export.Sink, 0)
	if spec.Dir != "" {
		sinks = append(sinks, export.NewJSONLSink(spec.Dir, spec.ShardSize))
	}
	if spec.Index != "" {
		idx, err := export.OpenIndex(spec.Index)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, idx)
	}
	if spec.Redis != "" {
		sinks = append(sinks, export.NewRedisSink(spec.Redis, spec.RedisPrefix))
	}

	var validator *export.Validator
	if !spec.SkipValidation {
		var err error
		if validator, err = export.NewValidator(); err != nil {
			return nil, err
		}
	}
	return export.NewRecorder(validator, sinks...), nil
}

// Generate runs the expert of every configured task and exports the episodes
func Generate(ctx context.Context, g config.Generation) error {
	recorder, err := newRecorder(g.Export)
	if err != nil {
		return err
	}
	if err := generate(ctx, g, recorder); err != nil {
		return err
	}
	if g.Export.Index != "" {
		return printIndexSummary(g.Export.Index)
	}
	return nil
}

// generate runs the comparison into the recorder. The sinks are closed
// before returning and a failed close fails the run: shards are only
// complete once their writers are closed.
func generate(ctx context.Context, g config.Generation, recorder *export.Recorder) (err error) {
	defer func() {
		if cerr := recorder.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export sinks: %w", cerr)
		}
	}()

	c := types.NewComparison(&types.ComparisonConfig{
		Episodes:   g.Episodes,
		Seed:       g.Seed,
		RecordPath: g.Export.Dir,
		Recorder:   recorder,
	})
	outcomes := types.NewOutcomeAnalyzer()
	c.AddAnalysis("Outcome", outcomes, types.PrintComparator())

	for _, spec := range g.Tasks {
		env, err := tasks.New(spec.Name, spec.Config)
		if err != nil {
			return err
		}
		expert, err := policies.ExpertFor(spec.Name)
		if err != nil {
			return err
		}
		recorder.SetConfig(env.Name(), spec.Config)
		c.AddExperiment(types.NewExperiment(tasks.ID(env.Name()), expert, env))
	}

	if err := c.Run(ctx); err != nil {
		return err
	}
	logger.Printf("generated %d episodes for %d tasks", g.Episodes, len(g.Tasks))

	if g.Export.Dir != "" {
		lines := []string{fmt.Sprintf("episodes per task: %d", g.Episodes), fmt.Sprintf("first seed: %d", g.Seed)}
		for _, spec := range g.Tasks {
			lines = append(lines, fmt.Sprintf("%s: %+v", spec.Name, spec.Config))
		}
		if err := util.WriteToFile(filepath.Join(g.Export.Dir, "generation.txt"), lines...); err != nil {
			return err
		}
	}
	return nil
}

// printIndexSummary prints one line per task from the episode index
func printIndexSummary(path string) error {
	idx, err := export.OpenIndex(path)
	if err != nil {
		return err
	}
	defer idx.Close()

	summary, err := idx.Summary()
	if err != nil {
		return err
	}
	for _, s := range summary {
		fmt.Printf("%s: %d episodes indexed, success %5.1f%%, length %.2f (max %d), recalls/episode %.2f\n",
			tasks.ID(s.Task), s.Episodes, s.SuccessRate()*100, s.MeanLength, s.MaxLength, s.MeanRecalls)
	}
	return nil
}

func GenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate expert trajectories with their memory associations",
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
			return Generate(ctx, g)
		},
	}
}
