package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/guzus/teleterm/internal/config"
	"github.com/guzus/teleterm/internal/messaging"
	"github.com/guzus/teleterm/internal/store"
)

var chatCmd = &cobra.Command{
	Use:     "chat",
	Short:   "Manage chats in the local store",
	Long:    "Add, list, and remove chats kept by the local backend.",
	GroupID: "chat",
}

// openStore opens the local backend's store. Chats of the bridge backend
// are owned by the helper and cannot be edited here.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Backend != config.BackendLocal {
		return nil, fmt.Errorf("chat management needs the %q backend, configured backend is %q", config.BackendLocal, cfg.Backend)
	}
	return store.OpenPath(cfg.StorePath)
}

var chatAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("chat name is required")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		if _, err := st.AddChat(name); err != nil {
			return err
		}
		if err := st.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Chat %q added.\n", name)
		return nil
	},
}

var chatListCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls"},
	Short:   "List chats, optionally only those whose name matches query",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		chats := st.Chats()
		if len(chats) == 0 {
			fmt.Fprintln(out, "No chats yet. Run: teleterm chat add <name>")
			return nil
		}
		if len(args) == 1 {
			if chats = messaging.MatchChats(chats, args[0]); len(chats) == 0 {
				fmt.Fprintf(out, "No chats match %q.\n", args[0])
				return nil
			}
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tUNREAD\tLAST ACTIVITY")
		for _, c := range chats {
			last := "-"
			if !c.LastActivity.IsZero() {
				last = c.LastActivity.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", c.ID, c.Name, c.Unread, last)
		}
		return w.Flush()
	},
}

var chatRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a chat and its messages",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		c, err := st.RemoveChat(args[0])
		if err != nil {
			return err
		}
		if err := st.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Chat %q removed.\n", c.Name)
		return nil
	},
}

func init() {
	chatCmd.AddCommand(chatAddCmd)
	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatRemoveCmd)

	rootCmd.AddCommand(chatCmd)
}
