package benchmarks

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	episodes   int
	seed       int64
	saveFile   string
	configFile string

	logger = log.New(os.Stderr, "[ltmb] ", log.LstdFlags)
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "ltmb",
		Short:         "Long-term memory benchmark tasks, expert oracles and datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 100, "Number of episodes to run per task")
	rootCommand.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed of the first episode, episode i uses seed+i")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "data", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "YAML generation config")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a heap profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(GenerateCommand())
	rootCommand.AddCommand(EvaluateCommand())
	rootCommand.AddCommand(VerifyCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(TasksCommand())
	return rootCommand
}
