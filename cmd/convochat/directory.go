package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/convochat/convochat/rest"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := apiClient().ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		log.Debug().Int("count", len(users)).Msg("[directory] users")
		return printUsers(cmd.OutOrStdout(), users)
	},
}

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List conversations a user participates in",
	RunE: func(cmd *cobra.Command, args []string) error {
		convs, err := apiClient().ListConversations(cmd.Context(), flagUserID)
		if err != nil {
			return fmt.Errorf("list conversations: %w", err)
		}
		log.Debug().Int("count", len(convs)).Int64("user_id", flagUserID).Msg("[directory] conversations")
		return printConversations(cmd.OutOrStdout(), convs)
	},
}

var createConversationCmd = &cobra.Command{
	Use:   "create-conversation",
	Short: "Create a conversation with the given participants",
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := apiClient().CreateConversation(cmd.Context(), rest.CreateConversationRequest{
			UserID:       flagUserID,
			Title:        flagTitle,
			Participants: splitEmails(flagParticipants),
		})
		if err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
		log.Info().Int64("id", conv.ID).Msg("[directory] conversation created")
		return printConversations(cmd.OutOrStdout(), []rest.Conversation{*conv})
	},
}

var (
	flagUserID       int64
	flagTitle        string
	flagParticipants string
)

func init() {
	conversationsCmd.Flags().Int64Var(&flagUserID, "user-id", 0, "participant user id")
	_ = conversationsCmd.MarkFlagRequired("user-id")

	flags := createConversationCmd.Flags()
	flags.Int64Var(&flagUserID, "user-id", 0, "owner user id")
	flags.StringVar(&flagTitle, "title", "", "conversation title")
	flags.StringVar(&flagParticipants, "participants", "", "comma-separated participant emails")
	_ = createConversationCmd.MarkFlagRequired("user-id")
	_ = createConversationCmd.MarkFlagRequired("participants")
}

func apiClient() *rest.Client {
	return rest.NewClient(rest.BaseURLForHost(flagHost))
}

func splitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func printUsers(w io.Writer, users []rest.User) error {
	t := newTable("ID", "EMAIL", "NAME")
	for _, u := range users {
		t.Row(strconv.FormatInt(u.ID, 10), u.Email, strings.TrimSpace(u.FirstName+" "+u.LastName))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printConversations(w io.Writer, convs []rest.Conversation) error {
	t := newTable("ID", "TITLE", "OWNER", "CREATED")
	for _, c := range convs {
		created := ""
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Local().Format(time.DateTime)
		}
		t.Row(strconv.FormatInt(c.ID, 10), c.Title, c.Owner.Email, created)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
