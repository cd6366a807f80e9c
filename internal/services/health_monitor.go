package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/summarizetube/summarizetube-backend/internal/providers"
)

// HealthStatus represents the health of a provider
type HealthStatus struct {
	Healthy      bool      `json:"healthy"`
	LastCheck    time.Time `json:"last_check"`
	LastError    string    `json:"last_error,omitempty"`
	ResponseTime int64     `json:"response_time_ms"`
	ErrorCount   int       `json:"error_count"`
	SuccessCount int       `json:"success_count"`
	ErrorRate    float64   `json:"error_rate"`
}

// HealthMonitor tracks provider health from the outcome of real calls.
type HealthMonitor struct {
	health map[string]*HealthStatus
	mu     sync.RWMutex
}

// NewHealthMonitor creates a monitor with every registered provider
// starting out healthy.
func NewHealthMonitor(registry *providers.Registry) *HealthMonitor {
	monitor := &HealthMonitor{
		health: make(map[string]*HealthStatus),
	}
	for _, name := range registry.List() {
		monitor.health[name] = &HealthStatus{Healthy: true, LastCheck: time.Now()}
	}
	return monitor
}

// IsHealthy returns whether a provider is healthy
func (m *HealthMonitor) IsHealthy(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, exists := m.health[name]
	return exists && status.Healthy
}

// GetHealth returns a copy of the health status for a provider
func (m *HealthMonitor) GetHealth(name string) *HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if status, exists := m.health[name]; exists {
		statusCopy := *status
		return &statusCopy
	}
	return nil
}

// RecordSuccess records a successful request
func (m *HealthMonitor) RecordSuccess(name string, responseTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.status(name)
	status.SuccessCount++
	status.ResponseTime = responseTime.Milliseconds()
	status.LastCheck = time.Now()
	status.LastError = ""
	updateErrorRate(status)
}

// RecordError records a failed request
func (m *HealthMonitor) RecordError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.status(name)
	status.ErrorCount++
	status.LastError = err.Error()
	status.LastCheck = time.Now()
	updateErrorRate(status)
}

// status must be called with mu held.
func (m *HealthMonitor) status(name string) *HealthStatus {
	status, exists := m.health[name]
	if !exists {
		status = &HealthStatus{Healthy: true}
		m.health[name] = status
	}
	return status
}

// minHealthCalls is the number of calls needed before a provider can be
// judged unhealthy.
const minHealthCalls = 6

// updateErrorRate recomputes the error rate and marks the provider
// unhealthy while more than half of at least minHealthCalls calls failed.
func updateErrorRate(status *HealthStatus) {
	total := status.SuccessCount + status.ErrorCount
	if total > 0 {
		status.ErrorRate = float64(status.ErrorCount) / float64(total)
	}
	status.Healthy = !(total >= minHealthCalls && status.ErrorRate > 0.5)
}

// GetAllHealth returns health status for all providers
func (m *HealthMonitor) GetAllHealth() map[string]HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	healthCopy := make(map[string]HealthStatus, len(m.health))
	for k, v := range m.health {
		healthCopy[k] = *v
	}
	return healthCopy
}

// Wrap returns a provider that reports every call outcome to the monitor
// under name.
func (m *HealthMonitor) Wrap(name string, provider providers.Provider) providers.Provider {
	return &monitoredProvider{Provider: provider, name: name, monitor: m}
}

type monitoredProvider struct {
	providers.Provider
	name    string
	monitor *HealthMonitor
}

func (p *monitoredProvider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	start := time.Now()
	resp, err := p.Provider.Complete(ctx, req)
	if err != nil {
		p.recordError(ctx, err)
		return nil, err
	}
	p.monitor.RecordSuccess(p.name, time.Since(start))
	return resp, nil
}

func (p *monitoredProvider) StreamComplete(ctx context.Context, req providers.CompletionRequest) (<-chan providers.StreamChunk, error) {
	start := time.Now()
	stream, err := p.Provider.StreamComplete(ctx, req)
	if err != nil {
		p.recordError(ctx, err)
		return nil, err
	}

	out := make(chan providers.StreamChunk)
	go func() {
		defer close(out)
		for chunk := range stream {
			switch {
			case chunk.Error != "":
				p.monitor.RecordError(p.name, errors.New(chunk.Error))
			case chunk.FinishReason != "":
				p.monitor.RecordSuccess(p.name, time.Since(start))
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// recordError ignores failures caused by the caller giving up.
func (p *monitoredProvider) recordError(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	p.monitor.RecordError(p.name, err)
}
