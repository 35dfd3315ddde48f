package convochat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/vovakirdan/convochat/convochat/internal"

	"github.com/coder/websocket"
)

// Widget binds one WebSocket connection to one conversation. Inbound
// messages are appended to the page's message list; form submissions are
// sent to the socket.
type Widget struct {
	cfg        Config
	page       Page
	logger     Logger
	conn       *internal.Conn
	writeCh    chan any
	dispatcher Dispatcher

	onMessage  func(Message)
	onPresence func(PresenceEvent)
	onError    func(error)

	mu       sync.Mutex
	state    ConnectionState
	dialed   bool
	closed   bool
	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once

	// closing asks writeLoop to flush writeCh and exit; writeDone is
	// closed when it has.
	closing   chan struct{}
	writeDone chan struct{}
}

// New constructs a widget for cfg.ConversationID wired to page.
// Use DefaultConfig() as a starting point.
func New(cfg Config, page Page) *Widget {
	w := &Widget{
		cfg:       cfg,
		page:      page,
		logger:    noopLogger{},
		writeCh:   make(chan any, 16),
		state:     StateConnecting,
		done:      make(chan struct{}),
		closing:   make(chan struct{}),
		writeDone: make(chan struct{}),
	}
	w.dispatcher.SetOnRender(w.render)
	w.dispatcher.SetOnPresence(w.presence)
	w.dispatcher.SetOnUnknown(func(typ string) {
		w.logger.Debug("ignoring frame", map[string]any{"type": typ})
	})
	return w
}

// SetLogger overrides logger (optional).
func (w *Widget) SetLogger(l Logger) {
	if l == nil {
		return
	}
	w.logger = l
}

// Callbacks must be registered before Connect.

// OnMessage registers a callback invoked after a message has been rendered.
func (w *Widget) OnMessage(fn func(Message)) { w.onMessage = fn }

// OnPresence registers a callback for join, leave and typing events.
func (w *Widget) OnPresence(fn func(PresenceEvent)) { w.onPresence = fn }

// OnError registers a callback for bad frames and lost connections. It may
// run on the write loop, so it must not call Close.
func (w *Widget) OnError(fn func(error)) { w.onError = fn }

// URL returns the socket URL the widget dials.
func (w *Widget) URL() string {
	return ChatURL(w.cfg.Host, w.cfg.ConversationID)
}

// State reports whether the socket has opened.
func (w *Widget) State() ConnectionState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Done is closed once the widget can no longer receive frames.
func (w *Widget) Done() <-chan struct{} {
	return w.done
}

// Connect opens the widget's connection and starts its loops. A widget
// opens at most one connection in its lifetime, even if the dial fails.
func (w *Widget) Connect(ctx context.Context) error {
	if err := w.cfg.validate(); err != nil {
		return err
	}
	if w.page.Messages == nil || w.page.Input == nil {
		return NewError(ErrorInvalidConfig, "page is missing its message list or input")
	}

	w.mu.Lock()
	if w.dialed {
		w.mu.Unlock()
		return NewError(ErrorAlreadyConnected, "widget already opened its connection")
	}
	if w.closed {
		w.mu.Unlock()
		return NewError(ErrorDisconnected, "widget closed")
	}
	w.dialed = true
	w.mu.Unlock()

	u := w.URL()
	dialCtx := ctx
	if w.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, w.cfg.HandshakeTimeout)
		defer cancel()
	}

	ws, _, err := websocket.Dial(dialCtx, u, nil)
	if err != nil {
		w.finish()
		return WrapError(ErrorConnection, "dial "+u, err)
	}
	if w.cfg.ReadLimit > 0 {
		ws.SetReadLimit(w.cfg.ReadLimit)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		cancel()
		_ = ws.Close(websocket.StatusGoingAway, "widget closed")
		w.finish()
		return NewError(ErrorDisconnected, "widget closed while connecting")
	}
	w.conn = internal.NewConn(ws, w.cfg.ReadTimeout, w.cfg.WriteTimeout)
	w.cancel = cancel
	w.state = StateOpen
	w.mu.Unlock()

	w.logger.Info("Connected to chat", map[string]any{"url": u, "conversation": w.cfg.ConversationID})

	go w.readLoop(runCtx, cancel)
	go w.writeLoop(runCtx)
	return nil
}

// Submit handles a submission of the message form. The event's default
// action is always prevented. A value that is blank after trimming is not
// sent and the input keeps it; otherwise the untrimmed value is sent and
// the input is cleared.
func (w *Widget) Submit(ctx context.Context, ev *SubmitEvent) error {
	if ev != nil {
		ev.PreventDefault()
	}
	if w.page.Input == nil {
		return NewError(ErrorInvalidConfig, "page has no input")
	}
	content := w.page.Input.Value()
	if isBlank(content) {
		return nil
	}
	if err := w.Send(ctx, content); err != nil {
		return err
	}
	w.page.Input.SetValue("")
	return nil
}

// Send queues a message frame with content as is.
func (w *Widget) Send(ctx context.Context, content string) error {
	return w.send(ctx, MessageFrame{Type: TypeMessage, Content: content})
}

// Join announces the user to the conversation.
func (w *Widget) Join(ctx context.Context) error {
	return w.send(ctx, ControlFrame{Type: TypeJoin})
}

// Typing tells other participants the user started typing.
func (w *Widget) Typing(ctx context.Context) error {
	return w.send(ctx, ControlFrame{Type: TypeTyping})
}

// StopTyping tells other participants the user stopped typing.
func (w *Widget) StopTyping(ctx context.Context) error {
	return w.send(ctx, ControlFrame{Type: TypeStopTyping})
}

// Leave announces that the user left. The socket stays open.
func (w *Widget) Leave(ctx context.Context) error {
	return w.send(ctx, ControlFrame{Type: TypeLeave})
}

// Close tears the widget down, closing the socket as a page unload would.
// Frames already queued by Submit or Send are written first, within
// WriteTimeout.
func (w *Widget) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closing)
	conn := w.conn
	cancel := w.cancel
	w.mu.Unlock()

	if conn == nil {
		w.finish()
		return nil
	}

	<-w.writeDone
	err := conn.Close(websocket.StatusGoingAway, "widget closed")
	cancel()
	return err
}

func (w *Widget) send(ctx context.Context, frame any) error {
	w.mu.Lock()
	open := w.state == StateOpen && !w.closed
	w.mu.Unlock()
	if !open {
		return NewError(ErrorNotConnected, "socket is not open")
	}

	select {
	case <-w.done:
		return NewError(ErrorDisconnected, "connection lost")
	default:
	}

	select {
	case w.writeCh <- frame:
		return nil
	case <-w.done:
		return NewError(ErrorDisconnected, "connection lost")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Widget) render(m Message) {
	w.page.Messages.Append(FormatLine(m))
	if w.onMessage != nil {
		w.onMessage(m)
	}
}

func (w *Widget) presence(ev PresenceEvent) {
	w.logger.Debug("presence", map[string]any{"kind": string(ev.Kind), "user": ev.User})
	if w.onPresence != nil {
		w.onPresence(ev)
	}
}

func (w *Widget) readLoop(ctx context.Context, cancel context.CancelFunc) {
	defer w.finish()
	defer cancel()
	for {
		data, err := w.conn.Read(ctx)
		if err != nil {
			if w.isClosed() || isExpectedDisconnect(ctx, err) {
				w.logger.Debug("read loop exit", map[string]any{"reason": err.Error()})
				return
			}
			w.fireError(WrapError(ErrorDisconnected, "read failed", err))
			w.logger.Warn("read loop exit", map[string]any{"error": err.Error()})
			return
		}
		if err := w.dispatcher.Dispatch(data); err != nil {
			w.logger.Error("dropping frame", map[string]any{"error": err.Error()})
			w.fireError(err)
		}
	}
}

func (w *Widget) writeLoop(ctx context.Context) {
	defer close(w.writeDone)
	for {
		select {
		case frame := <-w.writeCh:
			if !w.write(ctx, frame) {
				return
			}
		case <-w.closing:
			w.flush(ctx)
			return
		case <-ctx.Done():
			return
		}
	}
}

// flush writes whatever is still queued.
func (w *Widget) flush(ctx context.Context) {
	if w.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.WriteTimeout)
		defer cancel()
	}
	pending := len(w.writeCh)
	for {
		select {
		case frame := <-w.writeCh:
			if !w.write(ctx, frame) {
				return
			}
		default:
			if pending > 0 {
				w.logger.Debug("flushed queue", map[string]any{"frames": pending})
			}
			return
		}
	}
}

func (w *Widget) write(ctx context.Context, frame any) bool {
	err := w.conn.Write(ctx, frame)
	if err == nil {
		return true
	}
	if ctx.Err() != nil {
		w.logger.Debug("write loop exit", map[string]any{"reason": err.Error()})
		return false
	}
	w.fireError(WrapError(ErrorDisconnected, "write failed", err))
	w.logger.Warn("write loop exit", map[string]any{"error": err.Error()})
	return false
}

func (w *Widget) fireError(err error) {
	if w.onError != nil && err != nil {
		w.onError(err)
	}
}

func (w *Widget) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Widget) finish() {
	w.doneOnce.Do(func() { close(w.done) })
}

// isBlank mirrors String.prototype.trim, which also strips U+FEFF but
// keeps U+0085.
func isBlank(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		if r == '\u0085' {
			return false
		}
		return unicode.IsSpace(r) || r == '\uFEFF'
	}) == ""
}

func isExpectedDisconnect(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
