package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/relay/cmd/relay-cli/internal/chatclient"
)

var (
	chatURL      string
	chatUsername string
	chatTimeout  time.Duration
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Join a relay server and chat from the terminal",
	Long: `Connect to a relay server, join with a username and chat.

Every line typed is sent as a chat message to everyone. Commands:
  /w <user> <text>   send a direct message
  /join <name>       try another name after a rejection
  /leave             leave the chat and exit

Examples:
  relay-cli chat --username alice
  relay-cli chat --url ws://chat.example.com/ws --username bob`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatUsername == "" {
			return errors.New("--username is required")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dialCtx, cancel := context.WithTimeout(ctx, chatTimeout)
		defer cancel()
		client, err := chatclient.Dial(dialCtx, chatURL)
		if err != nil {
			return err
		}
		defer client.Close()

		return client.Run(ctx, chatUsername, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&chatURL, "url", "ws://localhost:8080/ws", "Websocket endpoint of the relay server")
	chatCmd.Flags().StringVarP(&chatUsername, "username", "u", "", "Name to join with")
	chatCmd.Flags().DurationVar(&chatTimeout, "timeout", 10*time.Second, "Connection timeout")
}
