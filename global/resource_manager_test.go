package global

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	name string
	op   string
}

type fakeDaemon struct {
	name     string
	startErr error
	events   *[]event
}

func (f *fakeDaemon) Name() string { return f.name }

func (f *fakeDaemon) Start() error {
	*f.events = append(*f.events, event{f.name, "start"})
	return f.startErr
}

func (f *fakeDaemon) Close() {
	*f.events = append(*f.events, event{f.name, "close"})
}

type fakeResource struct {
	name   string
	events *[]event
}

func (f *fakeResource) Close() {
	*f.events = append(*f.events, event{f.name, "close"})
}

func TestResourceManagerOrder(t *testing.T) {
	var events []event
	rm := NewResourceManager()
	server := &fakeDaemon{name: "server", events: &events}
	metrics := &fakeDaemon{name: "metrics", events: &events}
	log := &fakeResource{name: "logger", events: &events}

	rm.AddDaemonWithOrder(metrics, 50)
	rm.AddDaemonWithOrder(server, 100)
	rm.AddDaemonWithOrder(server, 100)
	rm.AddWithOrder(log, 0)

	require.NoError(t, rm.Start())
	require.NoError(t, rm.Start())
	rm.Close()
	rm.Close()

	assert.Equal(t, []event{
		{"server", "start"}, {"metrics", "start"},
		{"server", "close"}, {"metrics", "close"}, {"logger", "close"},
	}, events)
}

func TestResourceManagerStartFailure(t *testing.T) {
	var events []event
	rm := NewResourceManager()
	rm.AddDaemonWithOrder(&fakeDaemon{name: "first", events: &events}, 2)
	rm.AddDaemonWithOrder(&fakeDaemon{name: "broken", startErr: errors.New("port in use"), events: &events}, 1)

	err := rm.Start()
	assert.ErrorContains(t, err, "start broken: port in use")
	assert.Equal(t, []event{{"first", "start"}, {"broken", "start"}, {"first", "close"}}, events)
}

func TestResourceManagerRun(t *testing.T) {
	var events []event
	rm := NewResourceManager()
	rm.AddDaemon(&fakeDaemon{name: "server", events: &events})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, rm.Run(ctx))
	assert.Equal(t, []event{{"server", "start"}, {"server", "close"}}, events)
}
