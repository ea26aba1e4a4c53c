package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [event-id]",
		Short: "Delete an event",
		Long: `Delete an event by its ID.

Example:
  dayslot delete 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid event ID: %w", err)
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			if err := a.repo.DeleteEvent(context.Background(), id); err != nil {
				return fmt.Errorf("deleting event: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event #%d\n", id)
			return nil
		},
	}
}
