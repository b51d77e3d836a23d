package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/binduai/bindu-go/pkg/auth"
	"github.com/binduai/bindu-go/pkg/client"
)

var (
	chatContextFlag string
	chatReplyToFlag string
	chatSystemFlag  string
	chatStreamFlag  bool
	chatVerboseFlag bool

	chatCmd = &cobra.Command{
		Use:   "chat [text]",
		Short: "Send a message to the agent and await the answer",
		Long:  longChat,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			engine := newEngine()

			opts := []client.SendOption{}
			if chatContextFlag != "" {
				opts = append(opts, client.InContext(chatContextFlag))
			}
			if chatReplyToFlag != "" {
				opts = append(opts, client.ReplyTo(chatReplyToFlag))
			}
			if chatSystemFlag != "" {
				opts = append(opts, client.WithSystemPrompt(chatSystemFlag))
			}

			if chatStreamFlag {
				return runStream(cmd, engine, text, opts)
			}

			result, err := engine.SendMessage(cmd.Context(), text, opts...)
			if err != nil {
				return err
			}

			if result.InputRequired {
				fmt.Printf("The agent needs more input: %s\n", result.Prompt)
				fmt.Printf("Reply with: bindu-go chat --context %s <answer>\n", result.ContextID)
				if chatVerboseFlag {
					fmt.Print(result.Task.String())
				}
				return nil
			}

			fmt.Println(result.Text)
			if chatVerboseFlag {
				fmt.Print(result.Task.String())
			}
			log.Debug("chat round trip complete", "contextId", result.ContextID, "taskId", result.Task.ID)
			return nil
		},
	}
)

func runStream(cmd *cobra.Command, engine *client.Client, text string, opts []client.SendOption) error {
	updates, err := engine.SendMessageStream(cmd.Context(), text, opts...)
	if err != nil {
		return err
	}
	defer updates.Close()

	for updates.Next() {
		update := updates.Update()
		fmt.Print(update.Token)
		if update.Final {
			fmt.Println()
		}
	}

	return updates.Err()
}

// newEngine builds a protocol client from the resolved configuration.
func newEngine() *client.Client {
	creds := auth.NewCredentials(
		viper.GetString("auth.bearer_token"),
		viper.GetString("auth.payment_token"),
	)

	opts := []client.Option{
		client.WithCancelOnAbort(viper.GetBool("cancel_on_abort")),
	}
	if interval := viper.GetDuration("poll.interval"); interval > 0 {
		opts = append(opts, client.WithPollInterval(interval))
	}
	if attempts := viper.GetInt("poll.max_attempts"); attempts > 0 {
		opts = append(opts, client.WithPollMaxAttempts(attempts))
	}
	if failures := viper.GetInt("poll.max_consecutive_failures"); failures > 0 {
		opts = append(opts, client.WithMaxConsecutivePollFailures(failures))
	}

	return client.New(viper.GetString("endpoint"), creds, opts...)
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatContextFlag, "context", "c", "", "Continue an existing conversation context")
	chatCmd.Flags().StringVarP(&chatReplyToFlag, "reply-to", "r", "", "Branch off a specific earlier task")
	chatCmd.Flags().StringVarP(&chatSystemFlag, "system-prompt", "s", "", "System prompt forwarded with the submission")
	chatCmd.Flags().BoolVar(&chatStreamFlag, "stream", false, "Stream tokens as they arrive instead of waiting")
	chatCmd.Flags().BoolVarP(&chatVerboseFlag, "verbose", "v", false, "Print the full task details after the answer")
}

var longChat = `
Submit a message and track the resulting task until the agent answers or
asks for more input.  With --stream the incremental delivery mode is used
and tokens are printed as they arrive.
`
