package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
)

func TestHealthMonitorRecords(t *testing.T) {
	registry := providers.NewRegistry()
	registry.Register("fake", &fakeProvider{})
	monitor := NewHealthMonitor(registry)

	assert.True(t, monitor.IsHealthy("fake"))
	assert.False(t, monitor.IsHealthy("missing"))
	assert.Nil(t, monitor.GetHealth("missing"))

	monitor.RecordSuccess("fake", 0)
	monitor.RecordSuccess("fake", 0)
	for i := 0; i < 3; i++ {
		monitor.RecordError("fake", errUpstream)
	}
	// Three of five calls failed, but five calls are too few to judge.
	assert.True(t, monitor.IsHealthy("fake"))

	monitor.RecordError("fake", errUpstream)
	status := monitor.GetHealth("fake")
	require.NotNil(t, status)
	assert.False(t, status.Healthy, "four of six calls failed")
	assert.Equal(t, 2, status.SuccessCount)
	assert.Equal(t, 4, status.ErrorCount)
	assert.InDelta(t, 4.0/6.0, status.ErrorRate, 1e-9)
	assert.Equal(t, errUpstream.Error(), status.LastError)

	// One success does not clear an error rate above one half.
	monitor.RecordSuccess("fake", 0)
	assert.False(t, monitor.IsHealthy("fake"))

	monitor.RecordSuccess("fake", 0)
	monitor.RecordSuccess("fake", 0)
	assert.True(t, monitor.IsHealthy("fake"), "four of nine calls failed")
	assert.Len(t, monitor.GetAllHealth(), 1)
}

func TestMonitoredProvider(t *testing.T) {
	monitor := NewHealthMonitor(providers.NewRegistry())
	fake := &fakeProvider{completion: "ok", chunks: []string{"a", "b"}}
	provider := monitor.Wrap("fake", fake)

	assert.Equal(t, "fake", provider.Name())

	_, err := provider.Complete(context.Background(), providers.CompletionRequest{})
	require.NoError(t, err)

	stream, err := provider.StreamComplete(context.Background(), providers.CompletionRequest{})
	require.NoError(t, err)
	var deltas string
	for chunk := range stream {
		deltas += chunk.Delta
	}
	assert.Equal(t, "ab", deltas)
	assert.Equal(t, 2, monitor.GetHealth("fake").SuccessCount)

	fake.completeErr = errUpstream
	_, err = provider.Complete(context.Background(), providers.CompletionRequest{})
	assert.True(t, errors.Is(err, errUpstream))
	assert.Equal(t, 1, monitor.GetHealth("fake").ErrorCount)

	// A cancelled caller is not the provider's fault.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = provider.Complete(ctx, providers.CompletionRequest{})
	assert.Equal(t, 1, monitor.GetHealth("fake").ErrorCount)
}
