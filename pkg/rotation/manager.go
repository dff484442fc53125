package rotation

import (
	"fmt"
	"log/slog"
	"sync"

	"sigwatch-hq/kestrel/pkg/telemetry/metrics"
)

// HandleRegistrar receives newly created handles so the scheduler can poll
// their triggers and run their daily maintenance.
type HandleRegistrar interface {
	Register(h *Handle)
}

// Manager is the top-level rotation façade. It holds the named policies
// loaded from configuration, constructs handles bound to concrete files,
// and exposes the operator's manual force-rotation escape hatch.
type Manager struct {
	mu       sync.RWMutex
	policies map[string]*Policy
	handles  map[string]*Handle

	archiver  Archiver
	registrar HandleRegistrar
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewManager creates a rotation manager with the given named policies.
// archiver and collector may be nil.
func NewManager(policies map[string]*Policy, archiver Archiver, collector *metrics.Collector) *Manager {
	if policies == nil {
		policies = make(map[string]*Policy)
	}

	return &Manager{
		policies: policies,
		handles:  make(map[string]*Handle),
		archiver: archiver,
		metrics:  collector,
		logger:   slog.Default().With("component", "rotation.manager"),
	}
}

// SetRegistrar attaches the scheduler. Handles created afterwards are
// registered with it automatically.
func (m *Manager) SetRegistrar(r HandleRegistrar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrar = r
}

// Policy returns the named policy.
func (m *Manager) Policy(name string) (*Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.policies[name]
	if !ok {
		return nil, NewConfigurationError("policy", name, nil)
	}
	return p, nil
}

// CreateHandle binds the named policy to a concrete log file, opens the
// active stream, and registers the handle with the scheduler. An unknown
// policy name is a configuration error.
func (m *Manager) CreateHandle(path, policyName string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	policy, ok := m.policies[policyName]
	if !ok {
		return nil, NewConfigurationError("policy", policyName, nil)
	}

	if _, exists := m.handles[path]; exists {
		return nil, NewConfigurationError("handle", path, fmt.Errorf("already registered"))
	}

	h, err := NewHandle(path, policy, m.archiver, m.metrics)
	if err != nil {
		return nil, err
	}

	m.handles[path] = h
	if m.registrar != nil {
		m.registrar.Register(h)
	}

	m.logger.Info("rotation handle created", "file", path, "policy", policyName)

	return h, nil
}

// Handle returns the handle bound to the given log file path.
func (m *Manager) Handle(path string) (*Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.handles[path]
	if !ok {
		return nil, NewConfigurationError("handle", path, nil)
	}
	return h, nil
}

// Handles returns all registered handles.
func (m *Manager) Handles() []*Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	handles := make([]*Handle, 0, len(m.handles))
	for _, h := range m.handles {
		handles = append(handles, h)
	}
	return handles
}

// ForceRotation rotates the named log file immediately, bypassing trigger
// evaluation. This is the manual-intervention escape hatch for operators.
func (m *Manager) ForceRotation(path string) error {
	h, err := m.Handle(path)
	if err != nil {
		return err
	}

	m.logger.Info("forced rotation requested", "file", path)
	return h.Rollover()
}

// ReloadPolicies swaps the policy table and rebinds existing handles whose
// policy name survives the reload. Handles whose policy disappeared keep
// their current policy and are logged.
func (m *Manager) ReloadPolicies(policies map[string]*Policy) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.policies = policies

	for path, h := range m.handles {
		name := h.Policy().Name
		if p, ok := policies[name]; ok {
			h.SetPolicy(p)
		} else {
			m.logger.Warn("policy removed by reload, handle keeps previous policy",
				"file", path,
				"policy", name,
			)
		}
	}

	m.logger.Info("rotation policies reloaded", "count", len(policies))
}

// Close closes every handle's active stream.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for path, h := range m.handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close handle %s: %w", path, err)
		}
	}
	return firstErr
}
