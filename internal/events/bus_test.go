package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openPayload struct {
	Path string `json:"path"`
	Body string `json:"body"`
}

func TestBus_EmitToChannelListeners(t *testing.T) {
	bus := NewBus(nil)

	var workspaceEvents, fileEvents []Event
	bus.Subscribe(ChannelOpenWorkspace, func(e Event) { workspaceEvents = append(workspaceEvents, e) })
	bus.Subscribe(ChannelOpenJSONFile, func(e Event) { fileEvents = append(fileEvents, e) })

	err := bus.Emit(ChannelOpenWorkspace, openPayload{Path: "/ws", Body: `{"maps":[]}`})
	require.NoError(t, err)

	require.Len(t, workspaceEvents, 1)
	assert.Empty(t, fileEvents)

	e := workspaceEvents[0]
	assert.Equal(t, ChannelOpenWorkspace, e.Channel)
	assert.JSONEq(t, `{"path":"/ws","body":"{\"maps\":[]}"}`, string(e.Payload))

	_, err = ulid.Parse(e.ID)
	assert.NoError(t, err, "event id should be a ULID")
}

func TestBus_SubscribeAllSeesEveryChannel(t *testing.T) {
	bus := NewBus(nil)

	var got []Channel
	bus.SubscribeAll(func(e Event) { got = append(got, e.Channel) })

	require.NoError(t, bus.Emit(ChannelNewMap, nil))
	require.NoError(t, bus.Emit(ChannelSave, nil))
	require.NoError(t, bus.Emit(ChannelOpenJSONFile, openPayload{Path: "/m.json"}))

	assert.Equal(t, []Channel{ChannelNewMap, ChannelSave, ChannelOpenJSONFile}, got)
}

func TestBus_BareNotificationHasNoPayload(t *testing.T) {
	bus := NewBus(nil)

	var got Event
	bus.Subscribe(ChannelSave, func(e Event) { got = e })
	require.NoError(t, bus.Emit(ChannelSave, nil))

	assert.Nil(t, got.Payload)
	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "payload")
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)

	count := 0
	unsub := bus.Subscribe(ChannelSave, func(Event) { count++ })
	unsubAll := bus.SubscribeAll(func(Event) { count++ })

	require.NoError(t, bus.Emit(ChannelSave, nil))
	assert.Equal(t, 2, count)

	unsub()
	unsubAll()
	require.NoError(t, bus.Emit(ChannelSave, nil))
	assert.Equal(t, 2, count)
}

func TestBus_EmitAfterClose(t *testing.T) {
	bus := NewBus(nil)
	called := false
	bus.SubscribeAll(func(Event) { called = true })

	bus.Close()
	bus.Close()
	assert.True(t, bus.Closed())

	err := bus.Emit(ChannelOpenWorkspace, openPayload{Path: "/ws"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClosed))
	assert.Contains(t, err.Error(), "open_workspace")
	assert.False(t, called)
}

func TestBus_UnencodablePayload(t *testing.T) {
	bus := NewBus(nil)
	err := bus.Emit(ChannelExport, map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrClosed))
}

func TestBus_PanickingListenerIsContained(t *testing.T) {
	bus := NewBus(nil)

	reached := false
	bus.Subscribe(ChannelNewMap, func(Event) { panic("boom") })
	bus.SubscribeAll(func(Event) { reached = true })

	assert.NotPanics(t, func() {
		require.NoError(t, bus.Emit(ChannelNewMap, nil))
	})
	assert.True(t, reached)
}

func TestBus_StampsTime(t *testing.T) {
	bus := NewBus(nil)
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	bus.now = func() time.Time { return fixed }

	var got Event
	bus.SubscribeAll(func(e Event) { got = e })
	require.NoError(t, bus.Emit(ChannelSave, nil))

	assert.True(t, got.Time.Equal(fixed))
	id, err := ulid.Parse(got.ID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixed), id.Time())
}
