// send.go implements the "docchat send" command for one-shot messages.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docchat-dev/docchat/internal/chat"
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a message and print the reply",
	Long: `Send one message to the assistant and print its reply to stdout.
The message joins the ongoing conversation if one exists, otherwise a
new conversation is started and remembered for next time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}

	sink := &replySink{}
	ctrl := env.newController(sink)

	ctx := context.Background()
	ctrl.Restore(ctx)

	// Only replies from here on are ours to print.
	sink.armed = true
	ctrl.SendMessage(ctx, strings.Join(args, " "))

	if sink.failed {
		return fmt.Errorf("message not delivered")
	}
	return nil
}

// replySink prints assistant replies as they land. It stays quiet
// during restore so old history is not replayed on every send.
type replySink struct {
	chat.NopSink
	armed  bool
	failed bool
}

func (s *replySink) TurnAppended(turn chat.Turn) {
	if !s.armed || turn.Role != chat.RoleAssistant {
		return
	}
	if strings.HasPrefix(turn.Content, "Error: ") {
		fmt.Fprintln(os.Stderr, turn.Content)
		s.failed = true
		return
	}
	fmt.Println(turn.Content)
}
