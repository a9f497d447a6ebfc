package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
)

var tuiOwner string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long:  "Launch an interactive federated search for --owner.\n\nControls:\n" + controls(keymap.DefaultKeyMap()),
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiOwner, "owner", "", "owner whose records are searched (required)")
	rootCmd.AddCommand(tuiCmd)
}

// controls lists every binding for the command help, one per line.
func controls(km *keymap.KeyMap) string {
	var b strings.Builder
	for _, group := range km.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-8s %s\n", h.Key, h.Desc)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type teaProgram interface {
	Run() (tea.Model, error)
}

// newTUIProgram builds the bubbletea program. Replaced in tests.
var newTUIProgram = func(ctx context.Context, model tea.Model) teaProgram {
	return tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\nStack trace:\n%s\n", r, debug.Stack())
			err = fmt.Errorf("TUI panicked: %v", r)
		}
	}()

	if searchService == nil {
		return errors.New("search service not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(searchService, tuiOwner))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	ctx := cmd.Context()
	app.WithContext(ctx)

	_, err = newTUIProgram(ctx, app).Run()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil:
		// Interrupted by a signal.
		return nil
	default:
		return fmt.Errorf("TUI error: %w", err)
	}
}
