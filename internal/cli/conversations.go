// conversations.go implements "docchat conversations" list and delete.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docchat-dev/docchat/internal/log"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "List or delete conversations on the backend",
	RunE:    runConversationsList,
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a conversation",
	Long: `Delete a conversation from the backend. If it is the ongoing one,
the remembered session id is dropped too.`,
	Args: cobra.ExactArgs(1),
	RunE: runConversationsDelete,
}

func runConversationsList(cmd *cobra.Command, args []string) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}

	conversations, err := env.client.ListConversations(context.Background())
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}
	if len(conversations) == 0 {
		fmt.Println("No conversations.")
		return nil
	}

	current, _, _ := env.store.Load()

	for _, conv := range conversations {
		marker := " "
		if conv.SessionID == current {
			marker = "*"
		}
		fmt.Printf("%s %s  %d messages  updated %s\n",
			marker, conv.SessionID, len(conv.Messages),
			conv.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runConversationsDelete(cmd *cobra.Command, args []string) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}
	sessionID := args[0]

	if err := env.client.DeleteConversation(context.Background(), sessionID); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}

	current, ok, _ := env.store.Load()
	if ok && current == sessionID {
		if err := env.store.Clear(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
	}

	env.logger.Append(log.LogEvent{Event: log.EventConversationDeleted, SessionID: sessionID})
	fmt.Printf("Deleted conversation %s\n", sessionID)
	return nil
}

func init() {
	conversationsCmd.AddCommand(conversationsDeleteCmd)
}
