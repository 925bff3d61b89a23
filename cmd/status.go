package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guzus/teleterm/internal/config"
	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/ordering"
	"github.com/guzus/teleterm/internal/state"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show configuration and chat status",
	GroupID: "teleterm",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, src, err := config.LoadKeymap(cfg.Dir)
		if err != nil {
			return err
		}
		st, err := state.Load(cfg.Dir)
		if err != nil {
			return err
		}

		client, err := openClient(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer client.Close()
		chats := client.Chats()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config dir: %s\n", cfg.Dir)
		keymapPath := "(built-in)"
		if src.Path != "" {
			keymapPath = fmt.Sprintf("%s (%s)", src.Path, src.Format)
		}
		fmt.Fprintf(out, "Keymap:     %s\n", keymapPath)
		switch cfg.Backend {
		case config.BackendBridge:
			fmt.Fprintf(out, "Backend:    %s\n", cfg.Backend)
		default:
			fmt.Fprintf(out, "Backend:    %s (%s)\n", cfg.Backend, cfg.StorePath)
		}

		unread := 0
		for _, c := range chats {
			unread += c.Unread
		}
		fmt.Fprintf(out, "Chats:      %d\n", len(chats))
		fmt.Fprintf(out, "Unread:     %d\n", unread)

		order, err := ordering.ParseStrategy(st.ChatOrder)
		if err != nil {
			order = ordering.Default
		}
		fmt.Fprintf(out, "Ordering:   %s\n", order.Label())

		if c, ok := messaging.FindChat(chats, messaging.ChatID(st.LastChatID)); ok && st.LastChatID != 0 {
			fmt.Fprintf(out, "Last chat:  %s\n", c.Name)
		} else {
			fmt.Fprintf(out, "Last chat:  (none)\n")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
