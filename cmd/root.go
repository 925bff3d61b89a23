package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configDirFlag string
	backendFlag   string
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "teleterm",
	Short: "Keyboard-driven terminal chat client",
	Long: `teleterm is a terminal chat client driven entirely from the keyboard.

Every key is resolved through a configurable keymap, including multi-key
sequences such as "d d". Chats and messages can be fuzzy searched live.

Running teleterm without a command starts the terminal UI.

Examples:
  teleterm                        # start the UI
  teleterm keys --scope chat      # show the chat window bindings
  teleterm send alice "on my way" # send without opening the UI
  teleterm chat add Alice         # create a chat in the local store`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "",
		"configuration directory (default $TELETERM_CONFIG_HOME or the user config dir)")
	rootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "",
		"messaging backend: local or bridge (overrides app.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"log at debug level")

	rootCmd.AddGroup(
		&cobra.Group{ID: "chat", Title: "Chat Commands:"},
		&cobra.Group{ID: "teleterm", Title: "Teleterm Commands:"},
	)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
