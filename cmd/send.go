package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guzus/teleterm/internal/messaging"
)

var sendCmd = &cobra.Command{
	Use:   "send <chat> <text>",
	Short: "Send a message without opening the UI",
	Long: `Send a message to the chat whose name matches <chat>.

An exact name match wins; otherwise <chat> must be contained in exactly
one chat name.`,
	GroupID: "chat",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("message text is empty")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := openClient(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer client.Close()

		chat, err := pickChat(client.Chats(), args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()
		if err := client.Do(ctx, messaging.Request{Kind: messaging.Send, Chat: chat.ID, Text: text}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Sent to %s.\n", chat.Name)
		return nil
	},
}

// pickChat resolves a chat name to exactly one chat.
func pickChat(chats []messaging.Chat, query string) (messaging.Chat, error) {
	found := messaging.MatchChats(chats, query)
	switch len(found) {
	case 0:
		return messaging.Chat{}, fmt.Errorf("chat %q: %w", query, messaging.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, c := range found {
			names[i] = c.Name
		}
		return messaging.Chat{}, fmt.Errorf("chat %q is ambiguous: %s", query, strings.Join(names, ", "))
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
