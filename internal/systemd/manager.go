// Package systemd integrates the node with its service manager: readiness
// and watchdog notifications over sd_notify, and unit status over D-Bus.
package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// DefaultUnit is the unit name the node is installed as.
const DefaultUnit = "m5node.service"

// Manager queries and controls a systemd unit via D-Bus.
type Manager struct {
	conn *dbus.Conn
	unit string
}

// NewManager connects to the user bus when user is true, otherwise the system bus.
func NewManager(ctx context.Context, unit string, user bool) (*Manager, error) {
	if unit == "" {
		unit = DefaultUnit
	}

	var (
		conn *dbus.Conn
		err  error
	)
	if user {
		conn, err = dbus.NewUserConnectionContext(ctx)
	} else {
		conn, err = dbus.NewSystemConnectionContext(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to systemd: %w", err)
	}
	return &Manager{conn: conn, unit: unit}, nil
}

// Unit returns the managed unit name.
func (m *Manager) Unit() string {
	return m.unit
}

// Status retrieves the ActiveState property of the unit.
func (m *Manager) Status(ctx context.Context) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, m.unit, "ActiveState")
	if err != nil {
		return "", err
	}
	// Variant strings are quoted
	state := prop.Value.String()
	if len(state) >= 2 && state[0] == '"' && state[len(state)-1] == '"' {
		state = state[1 : len(state)-1]
	}
	return state, nil
}

// Restart queues a restart of the unit using the replace mode.
func (m *Manager) Restart(ctx context.Context) error {
	_, err := m.conn.RestartUnitContext(ctx, m.unit, "replace", nil)
	return err
}

// Close cleanly closes the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
