package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nfrund/relay/cmd/relay-cli/internal/topics"
	"github.com/nfrund/relay/internal/topicmgr"
)

var (
	listOutputFormat string
	listModuleFilter string
	listScopeFilter  string
	getOutputFormat  string
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Explore relay event bus topics",
	Long: `The topics command lists the events the relay server publishes on its
in-process event bus: chat activity (joins, messages, departures) and websocket
connection lifecycle.

Examples:
  # List all topics
  relay-cli topics list

  # List topics for a specific module
  relay-cli topics list --module=chat

  # Get detailed information about a topic
  relay-cli topics get chat.message.sent`,
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered topics",
	Long: `List all topics registered by the relay server, in table or JSON format.

Examples:
  relay-cli topics list                      # List all topics in table format
  relay-cli topics list --format json        # List all topics in JSON format
  relay-cli topics list --module chat        # Show only chat topics
  relay-cli topics list --scope framework    # Show only framework topics`,
	Args: cobra.NoArgs,
	RunE: topicsListHandler,
}

var topicsGetCmd = &cobra.Command{
	Use:   "get <topic-name>",
	Short: "Get detailed information about a specific topic",
	Args:  cobra.ExactArgs(1),
	RunE:  topicsGetHandler,
}

func topicsListHandler(cmd *cobra.Command, args []string) error {
	manager := topics.Catalog()

	var scope topicmgr.TopicScope
	if listScopeFilter != "" {
		var err error
		if scope, err = parseScope(listScopeFilter); err != nil {
			return err
		}
	}

	var list []topicmgr.Topic
	for _, t := range manager.List() {
		if listModuleFilter != "" && t.Module() != listModuleFilter {
			continue
		}
		if scope != "" && t.Scope() != scope {
			continue
		}
		list = append(list, t)
	}

	out := cmd.OutOrStdout()
	switch listOutputFormat {
	case "json":
		return topics.DisplayTopicsJSON(out, list)
	case "table":
		if len(list) == 0 {
			fmt.Fprintln(out, "No topics found")
			return nil
		}
		topics.DisplayTopicsTable(out, list)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, use table or json", listOutputFormat)
	}
}

func topicsGetHandler(cmd *cobra.Command, args []string) error {
	topic, found := topics.Catalog().Get(args[0])
	if !found {
		return fmt.Errorf("topic %q not found; use 'relay-cli topics list' to see all available topics", args[0])
	}
	return topics.DisplayTopicDetails(cmd.OutOrStdout(), topic, getOutputFormat)
}

// parseScope converts string scope to topicmgr.TopicScope
func parseScope(s string) (topicmgr.TopicScope, error) {
	switch strings.ToLower(s) {
	case "framework":
		return topicmgr.ScopeFramework, nil
	case "module":
		return topicmgr.ScopeModule, nil
	default:
		return "", fmt.Errorf("invalid scope %q, valid scopes: framework, module", s)
	}
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsGetCmd)

	topicsListCmd.Flags().StringVarP(&listOutputFormat, "format", "f", "table", "Output format (table, json)")
	topicsListCmd.Flags().StringVarP(&listModuleFilter, "module", "m", "", "Filter topics by module name")
	topicsListCmd.Flags().StringVarP(&listScopeFilter, "scope", "s", "", "Filter topics by scope (framework, module)")
	topicsGetCmd.Flags().StringVarP(&getOutputFormat, "format", "f", "table", "Output format (table, json)")
}
