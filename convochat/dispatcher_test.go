package convochat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherHistoryRendersInOrder(t *testing.T) {
	var got []Message
	var d Dispatcher
	d.SetOnRender(func(m Message) { got = append(got, m) })

	err := d.Dispatch([]byte(`{"type":"historical_messages","messages":[
		{"user":"a","content":"1"},{"user":"b","content":"2"},{"user":"c","content":"3"}]}`))
	require.NoError(t, err)
	require.Equal(t, []Message{{User: "a", Content: "1"}, {User: "b", Content: "2"}, {User: "c", Content: "3"}}, got)
}

func TestDispatcherEmptyHistory(t *testing.T) {
	calls := 0
	var d Dispatcher
	d.SetOnRender(func(Message) { calls++ })

	require.NoError(t, d.Dispatch([]byte(`{"type":"historical_messages","messages":[]}`)))
	require.NoError(t, d.Dispatch([]byte(`{"type":"historical_messages"}`)))
	require.Zero(t, calls)
}

func TestDispatcherSingleMessage(t *testing.T) {
	var got []Message
	var d Dispatcher
	d.SetOnRender(func(m Message) { got = append(got, m) })

	require.NoError(t, d.Dispatch([]byte(`{"type":"message","message":{"user":"alice","content":"hi"}}`)))
	require.Equal(t, []Message{{User: "alice", Content: "hi"}}, got)
}

func TestDispatcherServerAliases(t *testing.T) {
	var got []Message
	var d Dispatcher
	d.SetOnRender(func(m Message) { got = append(got, m) })

	require.NoError(t, d.Dispatch([]byte(`{"type":"chat.history","messages":[{"user":"a","message":"old"}]}`)))
	require.NoError(t, d.Dispatch([]byte(`{"type":"chat.message","message":{"user":"b","message":"new","timestamp":"2024-05-01T10:00:00+00:00"}}`)))
	require.Equal(t, []Message{
		{User: "a", Content: "old"},
		{User: "b", Content: "new", Timestamp: "2024-05-01T10:00:00+00:00"},
	}, got)
}

func TestDispatcherContentWinsOverMessageAlias(t *testing.T) {
	var got Message
	var d Dispatcher
	d.SetOnRender(func(m Message) { got = m })

	require.NoError(t, d.Dispatch([]byte(`{"type":"message","message":{"user":"a","content":"","message":"ignored"}}`)))
	require.Equal(t, Message{User: "a", Content: ""}, got)
}

func TestDispatcherMalformedFrame(t *testing.T) {
	calls := 0
	var d Dispatcher
	d.SetOnRender(func(Message) { calls++ })

	err := d.Dispatch([]byte(`{"type":"message",`))
	require.Error(t, err)
	require.Equal(t, ErrorSerialization, CodeOf(err))
	require.True(t, IsFrameError(err))
	require.Zero(t, calls)
}

func TestDispatcherHistorySkipsBadEntries(t *testing.T) {
	var got []Message
	var d Dispatcher
	d.SetOnRender(func(m Message) { got = append(got, m) })

	err := d.Dispatch([]byte(`{"type":"historical_messages","messages":[
		{"user":"a","content":"1"},{"user":5,"content":"2"},{"user":"c","content":"3"}]}`))
	require.Equal(t, ErrorInvalidFrame, CodeOf(err))
	require.Contains(t, err.Error(), "skipped 1 of 3")
	require.Equal(t, []Message{{User: "a", Content: "1"}, {User: "c", Content: "3"}}, got)
}

func TestDispatcherMessageFrameWithoutMessage(t *testing.T) {
	var d Dispatcher
	err := d.Dispatch([]byte(`{"type":"message"}`))
	require.Equal(t, ErrorInvalidFrame, CodeOf(err))
}

func TestDispatcherUnknownType(t *testing.T) {
	var unknown []string
	renders := 0
	var d Dispatcher
	d.SetOnRender(func(Message) { renders++ })
	d.SetOnUnknown(func(typ string) { unknown = append(unknown, typ) })

	require.NoError(t, d.Dispatch([]byte(`{"type":"reaction","message":{"user":"a","content":"x"}}`)))
	require.NoError(t, d.Dispatch([]byte(`{}`)))
	require.Equal(t, []string{"reaction", ""}, unknown)
	require.Zero(t, renders)
}

func TestDispatcherPresence(t *testing.T) {
	var got []PresenceEvent
	var d Dispatcher
	d.SetOnPresence(func(ev PresenceEvent) { got = append(got, ev) })

	frames := []string{
		`{"type":"chat.join","message":{"user":"Ann","user_id":3,"message":"Ann joined the chat"}}`,
		`{"type":"chat.typing","user":"Ann","user_id":3}`,
		`{"type":"chat.stop_typing","user":"Ann","user_id":"3"}`,
		`{"type":"chat.leave","user":"Ann"}`,
	}
	for _, f := range frames {
		require.NoError(t, d.Dispatch([]byte(f)))
	}
	require.Equal(t, []PresenceEvent{
		{Kind: PresenceJoined, User: "Ann", UserID: "3", Text: "Ann joined the chat"},
		{Kind: PresenceTyping, User: "Ann", UserID: "3"},
		{Kind: PresenceStopTyping, User: "Ann", UserID: "3"},
		{Kind: PresenceLeft, User: "Ann"},
	}, got)
}

func TestDispatcherWithoutCallbacks(t *testing.T) {
	var d Dispatcher
	require.NoError(t, d.Dispatch([]byte(`{"type":"message","message":{"user":"a","content":"b"}}`)))
	require.NoError(t, d.Dispatch([]byte(`{"type":"chat.leave","user":"a"}`)))
	require.NoError(t, d.Dispatch([]byte(`{"type":"other"}`)))
}
