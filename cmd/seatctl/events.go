package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/iliyamo/seat-allocation/internal/config"
	"github.com/iliyamo/seat-allocation/internal/logging"
	"github.com/iliyamo/seat-allocation/internal/queue"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect allocation events",
	}
	cmd.AddCommand(newEventsWatchCmd())
	return cmd
}

func newEventsWatchCmd() *cobra.Command {
	var queueName string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print allocation events from the broker as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, "text", cmd.ErrOrStderr())
			enc := json.NewEncoder(cmd.OutOrStdout())

			err = queue.Consume(cmd.Context(), cfg.RabbitURL, queueName, log.WithField("queue", queueName),
				func(_ context.Context, ev queue.AllocationEvent) error {
					return enc.Encode(ev)
				})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&queueName, "queue", queue.AllocationsQueue, "queue to consume")
	return cmd
}
