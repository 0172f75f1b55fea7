// new.go implements the "docchat new" command for starting over.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docchat-dev/docchat/internal/chat"
)

var forget bool

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a fresh conversation",
	Long: `Start a new conversation on the backend and make it the ongoing
one. The previous conversation is not deleted; it just stops being the
one this client resumes.

With --forget, no backend call is made: the remembered session id is
dropped locally and the next message starts a conversation lazily.`,
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}

	if forget {
		if err := env.store.Clear(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println("Forgot the current conversation.")
		return nil
	}

	sink := &replySink{armed: true}
	ctrl := env.newController(sink)
	ctrl.StartNew(context.Background())

	if sink.failed {
		return fmt.Errorf("could not start a new conversation")
	}
	if ctrl.State() == chat.StateFresh {
		fmt.Printf("Started conversation %s\n", ctrl.SessionID())
	}
	return nil
}

func init() {
	newCmd.Flags().BoolVar(&forget, "forget", false, "Drop the remembered session without contacting the backend")
}
