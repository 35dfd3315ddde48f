package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/convochat/convochat"
	"github.com/vovakirdan/convochat/internal/console"
	"github.com/vovakirdan/convochat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open a conversation and chat in it",
	RunE:  runChat,
}

var (
	flagConversation     string
	flagPlain            bool
	flagHandshakeTimeout time.Duration
	flagWriteTimeout     time.Duration
)

func init() {
	defaults := convochat.DefaultConfig()
	flags := chatCmd.Flags()
	flags.StringVar(&flagConversation, "conversation", "", "conversation id")
	flags.BoolVar(&flagPlain, "plain", false, "read lines from stdin and print messages to stdout, even on a terminal")
	flags.DurationVar(&flagHandshakeTimeout, "handshake-timeout", defaults.HandshakeTimeout, "socket handshake timeout (0 disables)")
	flags.DurationVar(&flagWriteTimeout, "write-timeout", defaults.WriteTimeout, "per-frame write timeout (0 disables)")
	_ = chatCmd.MarkFlagRequired("conversation")
}

func chatConfig() convochat.Config {
	cfg := convochat.DefaultConfig()
	cfg.Host = flagHost
	cfg.ConversationID = flagConversation
	cfg.HandshakeTimeout = flagHandshakeTimeout
	cfg.WriteTimeout = flagWriteTimeout
	return cfg
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagPlain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runPlain(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	return runTUI(ctx)
}

func runPlain(ctx context.Context, in io.Reader, out io.Writer) error {
	field := &convochat.TextField{}
	w := convochat.New(chatConfig(), convochat.Page{
		Messages: convochat.NewLineRenderer(out),
		Input:    field,
	})
	w.SetLogger(convochat.NewZerologLogger(log.Logger))
	w.OnPresence(func(ev convochat.PresenceEvent) {
		if text := presenceText(ev); text != "" {
			log.Info().Str("user", ev.User).Msg(text)
		}
	})
	w.OnError(func(err error) {
		log.Warn().Err(err).Msg("[chat] widget error")
	})

	if err := w.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer w.Close()

	return console.Run(ctx, w, field, in)
}

func runTUI(ctx context.Context) error {
	if flagLogFile == "" {
		// the alternate screen owns the terminal
		log.Logger = zerolog.Nop()
	}

	model := tui.New(ctx, "conversation "+flagConversation)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	w := convochat.New(chatConfig(), convochat.Page{
		Messages: tui.NewProgramRenderer(p),
		Input:    model.Field(),
	})
	w.SetLogger(convochat.NewZerologLogger(log.Logger))
	w.OnPresence(func(ev convochat.PresenceEvent) {
		p.Send(tui.StatusMsg(presenceText(ev)))
	})
	w.OnError(func(err error) {
		log.Warn().Err(err).Msg("[chat] widget error")
		p.Send(tui.StatusMsg(err.Error()))
	})
	model.Attach(w)
	defer w.Close()

	go func() {
		if err := w.Connect(ctx); err != nil {
			log.Error().Err(err).Msg("[chat] connect failed")
			p.Send(tui.StatusMsg("connect failed: " + err.Error()))
			return
		}
		p.Send(tui.StatusMsg("connected to " + w.URL()))
		select {
		case <-w.Done():
			p.Send(tui.StatusMsg("disconnected"))
		case <-ctx.Done():
		}
	}()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func presenceText(ev convochat.PresenceEvent) string {
	switch ev.Kind {
	case convochat.PresenceJoined:
		if ev.Text != "" {
			return ev.Text
		}
		return ev.User + " joined the chat"
	case convochat.PresenceTyping:
		return ev.User + " is typing..."
	case convochat.PresenceLeft:
		return ev.User + " left the chat"
	default:
		return ""
	}
}
