// Package console hosts a chat widget on plain line-oriented streams: every
// input line is typed into the field and submitted.
package console

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vovakirdan/convochat/convochat"
)

const quitCommand = "/quit"

// Session is the widget as the console drives it.
type Session interface {
	Submit(ctx context.Context, ev *convochat.SubmitEvent) error
	Done() <-chan struct{}
}

// Run feeds lines from in into field and submits each one until in ends,
// the user types /quit, ctx is cancelled or the session goes away.
func Run(ctx context.Context, s Session, field convochat.Input, in io.Reader) error {
	inputCh := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go readInput(in, inputCh, stop)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.Done():
			log.Info().Msg("[console] connection closed")
			return nil
		case line, ok := <-inputCh:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == quitCommand {
				return nil
			}
			field.SetValue(line)
			if err := s.Submit(ctx, &convochat.SubmitEvent{}); err != nil {
				if convochat.CodeOf(err) == convochat.ErrorDisconnected {
					return err
				}
				log.Warn().Err(err).Msg("[console] send failed")
			}
		}
	}
}

// readInput sends lines to dst until in ends or stop closes. A reader
// blocked inside in only exits once in returns.
func readInput(in io.Reader, dst chan<- string, stop <-chan struct{}) {
	defer close(dst)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case dst <- scanner.Text():
		case <-stop:
			return
		}
	}
}
