package cmd

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/guzus/teleterm/internal/config"
	"github.com/guzus/teleterm/internal/dispatch"
	"github.com/guzus/teleterm/internal/logging"
	"github.com/guzus/teleterm/internal/ordering"
	"github.com/guzus/teleterm/internal/state"
	"github.com/guzus/teleterm/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Short:   "Launch the interactive terminal UI",
	Long:    "Start teleterm's full-screen terminal interface. Same as running teleterm without a command.",
	GroupID: "teleterm",
	Args:    cobra.NoArgs,
	RunE:    runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func mouseEnabledFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TELETERM_TUI_MOUSE"))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel, verboseFlag)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger := log.With("component", "cmd")

	table, src, err := config.LoadKeymap(cfg.Dir)
	if err != nil {
		return err
	}
	logger.Info("starting", "backend", cfg.Backend, "keymap", src.Path)

	st, err := state.Load(cfg.Dir)
	if err != nil {
		return err
	}
	order, err := ordering.ParseStrategy(st.ChatOrder)
	if err != nil {
		logger.Warn("ignoring saved chat order", "err", err)
		order = ordering.Default
	}
	layout := dispatch.Layout{ChatListWidth: cfg.ChatListWidth, PromptHeight: cfg.PromptHeight}
	if st.ChatListWidth != 0 {
		layout.ChatListWidth = st.ChatListWidth
	}
	if st.PromptHeight != 0 {
		layout.PromptHeight = st.PromptHeight
	}

	client, err := openClient(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer client.Close()

	disp := dispatch.New(dispatch.Options{
		Table:   table,
		Timeout: cfg.SequenceTimeout(),
		Source:  client,
		Layout:  layout,
		Order:   order,
	})

	// Must run before the program takes over the terminal.
	style := tui.DetectMarkdownStyle()

	m := tui.NewMainModel(tui.Options{
		Client:         client,
		Dispatcher:     disp,
		State:          st,
		RequestTimeout: cfg.RequestTimeout(),
		ShowSplash:     cfg.ShowSplash,
		Markdown:       cfg.RenderMarkdown,
		MarkdownStyle:  style,
	})
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if mouseEnabledFromEnv() {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
