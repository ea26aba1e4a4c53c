package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/ics"
)

func (a *App) importCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "import [calendar.ics]",
		Short: "Import events from an iCalendar file",
		Long: `Import VEVENTs from an iCalendar (.ics) file.

Events are keyed by source and UID, so importing the same calendar
again updates events instead of duplicating them. The source defaults
to the file name without its extension. Use "-" to read stdin.

Example:
  dayslot import ~/Downloads/work.ics --source=work`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
				if source == "" {
					source = "stdin"
				}
			} else {
				path, err := resolvePath(args[0])
				if err != nil {
					return err
				}
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening calendar: %w", err)
				}
				defer func() { _ = f.Close() }()
				r = f
				if source == "" {
					source = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			count, skipped, err := importCalendar(context.Background(), a.repo, source, r)
			if err != nil {
				return err
			}
			for _, s := range skipped {
				fmt.Fprintf(out, "  %s %v\n", formatWarn("skipped:"), s)
			}
			fmt.Fprintf(out, "Imported %d events from %s\n", count, source)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Calendar name stored with each event")

	return cmd
}

// importCalendar parses r and upserts its events into dest.
func importCalendar(ctx context.Context, dest event.Repository, source string, r io.Reader) (int, []error, error) {
	if source == "" || source == event.SourceLocal {
		return 0, nil, fmt.Errorf("invalid source name %q", source)
	}

	events, skipped, err := ics.Parse(source, r)
	if err != nil {
		return 0, nil, err
	}
	if len(events) == 0 {
		if len(skipped) > 0 {
			return 0, skipped, errors.New("no importable events")
		}
		return 0, nil, nil
	}

	if err := dest.CreateEvents(ctx, events); err != nil {
		return 0, skipped, fmt.Errorf("storing events: %w", err)
	}
	return len(events), skipped, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
