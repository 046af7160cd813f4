package benchmarks

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/WilliamYue37/LTMB/server"
	"github.com/spf13/cobra"
)

func ServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tasks over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			s := server.NewServer(ctx, addr, logger)
			s.Start()
			<-ctx.Done()
			logger.Printf("shutting down")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7071", "Address to listen on")
	return cmd
}
