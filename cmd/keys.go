package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guzus/teleterm/internal/config"
	"github.com/guzus/teleterm/internal/keymap"
)

var (
	keysScopeFlag    string
	keysFormatFlag   string
	keysDefaultsFlag bool
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print the effective keymap",
	Long: `Print the key bindings teleterm would use, as a keymap file.

The output can be saved as keymap.toml (or keymap.yaml) in the config
directory and edited. The keymap is validated first, so conflicting or
unknown bindings are reported here as they would be at startup.`,
	GroupID: "teleterm",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := keymap.Format(keysFormatFlag)
		if format != keymap.FormatTOML && format != keymap.FormatYAML {
			return fmt.Errorf("unsupported format %q, want %q or %q", keysFormatFlag, keymap.FormatTOML, keymap.FormatYAML)
		}

		entries := keymap.Defaults()
		if !keysDefaultsFlag {
			dir, err := configDir()
			if err != nil {
				return err
			}
			if _, _, err := config.LoadKeymap(dir); err != nil {
				return err
			}
			if entries, _, err = config.LoadKeymapEntries(dir); err != nil {
				return err
			}
		}

		if keysScopeFlag != "" {
			sc, err := keymap.ParseScope(keysScopeFlag)
			if err != nil {
				return err
			}
			entries = map[keymap.Scope][]keymap.Entry{sc: entries[sc]}
		}
		return keymap.Encode(cmd.OutOrStdout(), entries, format)
	},
}

func init() {
	keysCmd.Flags().StringVarP(&keysScopeFlag, "scope", "s", "", "only print one scope (core_window, chat_list, chat, prompt)")
	keysCmd.Flags().StringVarP(&keysFormatFlag, "format", "f", string(keymap.FormatTOML), "output format: toml or yaml")
	keysCmd.Flags().BoolVar(&keysDefaultsFlag, "defaults", false, "print the built-in keymap, ignoring the config directory")
	rootCmd.AddCommand(keysCmd)
}
