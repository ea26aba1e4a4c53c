package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayslot/internal/config"
	"github.com/javiermolinar/dayslot/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  dayslot config
  dayslot config --show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show {
				printConfig(cmd.OutOrStdout(), a.config)
				return nil
			}
			return runConfigInteractive(cmd.OutOrStdout(), cmd.InOrStdin())
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the effective configuration and exit")
	return cmd
}

func runConfigInteractive(out io.Writer, in io.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(out, reader, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

// editConfig prompts for each editable field, keeping the current value on empty input.
func editConfig(out io.Writer, reader *bufio.Reader, cfg *config.Config) {
	cfg.Column.DayStart = promptValue(out, reader, "Day start", cfg.Column.DayStart)
	cfg.Column.DayEnd = promptValue(out, reader, "Day end", cfg.Column.DayEnd)
	cfg.Column.Step = promptInt(out, reader, "Slot minutes", cfg.Column.Step)
	cfg.Selection.Mode = promptValue(out, reader, "Selection mode (on, off, ignore_events)", cfg.Selection.Mode)

	hours := ""
	if cfg.HasBusinessHours() {
		hours = cfg.BusinessHours[0].Start + "-" + cfg.BusinessHours[0].End
	}
	if v := promptValue(out, reader, "Business hours HH:MM-HH:MM (\"none\" to disable)", hours); v != hours {
		cfg.BusinessHours = parseBusinessHours(v)
	}

	cfg.Storage.DBPath = promptValue(out, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(out, reader, cfg.UI.Theme)
	cfg.UI.Locale = promptValue(out, reader, "Locale (BCP 47, empty for 24h clock)", cfg.UI.Locale)
}

// parseBusinessHours turns "09:00-17:00" into a single every-day interval.
// Validation happens in Config.Validate.
func parseBusinessHours(v string) []config.BusinessHoursConfig {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "none") {
		return nil
	}
	start, end, _ := strings.Cut(v, "-")
	return []config.BusinessHoursConfig{{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}}
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[column]")
	fmt.Fprintf(w, "  day_start           = %s\n", cfg.Column.DayStart)
	fmt.Fprintf(w, "  day_end             = %s\n", cfg.Column.DayEnd)
	fmt.Fprintf(w, "  step                = %d\n", cfg.Column.Step)
	fmt.Fprintln(w, "\n[selection]")
	fmt.Fprintf(w, "  mode                = %s\n", cfg.Selection.Mode)
	fmt.Fprintf(w, "  drag_through_events = %t\n", cfg.Selection.DragThroughEvents)
	for _, bh := range cfg.BusinessHours {
		fmt.Fprintln(w, "\n[[business_hours]]")
		if len(bh.Days) > 0 {
			fmt.Fprintf(w, "  days                = %s\n", strings.Join(bh.Days, ", "))
		}
		fmt.Fprintf(w, "  start               = %s\n", bh.Start)
		fmt.Fprintf(w, "  end                 = %s\n", bh.End)
	}
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path             = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme               = %s\n", cfg.UI.Theme)
	if cfg.UI.Locale != "" {
		fmt.Fprintf(w, "  locale              = %s\n", cfg.UI.Locale)
	}
	if cfg.UI.RTL {
		fmt.Fprintln(w, "  rtl                 = true")
	}
}

func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(out io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(out io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(out, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptTheme(out io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(out, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
