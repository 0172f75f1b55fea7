// history.go implements the "docchat history" command.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docchat-dev/docchat/internal/chat"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the ongoing conversation",
	Long: `Fetch the ongoing conversation from the backend and print every
turn in order. Exits quietly if there is nothing to show.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}

	ctrl := env.newController(nil)
	ctrl.Restore(context.Background())

	turns := ctrl.Snapshot()
	if len(turns) == 0 {
		fmt.Println("No conversation yet. Start one with: docchat send <message>")
		return nil
	}

	fmt.Printf("Conversation %s\n\n", ctrl.SessionID())
	for _, turn := range turns {
		fmt.Printf("%s %s\n", rolePrefix(turn.Role), turn.Content)
	}
	return nil
}

func rolePrefix(role chat.Role) string {
	switch role {
	case chat.RoleUser:
		return "You:"
	case chat.RoleAssistant:
		return "Assistant:"
	default:
		return string(role) + ":"
	}
}
