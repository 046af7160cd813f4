package benchmarks

import (
	"encoding/json"
	"fmt"

	"github.com/WilliamYue37/LTMB/export"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/spf13/cobra"
)

// VerifyReport counts the checked records per task
type VerifyReport struct {
	Records  map[string]int
	Failures map[string]int
}

func (r VerifyReport) Failed() int {
	n := 0
	for _, f := range r.Failures {
		n += f
	}
	return n
}

// Verify validates every exported record under dir and replays it
func Verify(dir string) (VerifyReport, error) {
	report := VerifyReport{
		Records:  make(map[string]int),
		Failures: make(map[string]int),
	}
	validator, err := export.NewValidator()
	if err != nil {
		return report, err
	}

	for _, task := range tasks.Names {
		shards, err := export.Shards(dir, task)
		if err != nil {
			return report, err
		}
		for _, path := range shards {
			err := export.ReadShard(path, func(line []byte) error {
				report.Records[task] += 1
				if err := validator.Validate(line); err != nil {
					report.Failures[task] += 1
					logger.Printf("%s: invalid record: %s", path, err)
					return nil
				}
				var r export.Record
				if err := json.Unmarshal(line, &r); err != nil {
					return err
				}
				if err := export.Replay(r); err != nil {
					report.Failures[task] += 1
					logger.Printf("%s: seed %d: %s", path, r.Seed, err)
				}
				return nil
			})
			if err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

// verifyDir is the directory argument if given, otherwise the export
// directory generate would write to with the same flags and config
func verifyDir(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	g, err := generationConfig(cmd)
	if err != nil {
		return "", err
	}
	return g.Export.Dir, nil
}

func VerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [dir]",
		Short: "Validate exported episodes and replay them from their seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := verifyDir(cmd, args)
			if err != nil {
				return err
			}
			report, err := Verify(dir)
			if err != nil {
				return err
			}
			total := 0
			for _, task := range tasks.Names {
				if n := report.Records[task]; n > 0 {
					fmt.Printf("%s: %d records, %d failures\n", tasks.ID(task), n, report.Failures[task])
					total += n
				}
			}
			if total == 0 {
				return fmt.Errorf("no records found under %s", dir)
			}
			if report.Failed() > 0 {
				return fmt.Errorf("%d of %d records failed verification", report.Failed(), total)
			}
			return nil
		},
	}
}
