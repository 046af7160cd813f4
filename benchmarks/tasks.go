package benchmarks

import (
	"fmt"

	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/spf13/cobra"
)

func TasksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the registered tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := tasks.DefaultConfig()
			for _, name := range tasks.Names {
				if err := cfg.Validate(name); err != nil {
					return err
				}
				fmt.Printf("%-18s %s\n", tasks.ID(name), name)
			}
			fmt.Printf("defaults: %+v\n", cfg)
			return nil
		},
	}
}
