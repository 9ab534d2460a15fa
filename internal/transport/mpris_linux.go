//go:build linux

package transport

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// MPRIS sends transport commands to the active MPRIS player on the session bus.
type MPRIS struct {
	conn *dbus.Conn
}

func openPlatform() (Commander, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}
	return &MPRIS{conn: conn}, nil
}

func (m *MPRIS) Previous() error { return m.call("Previous") }

func (m *MPRIS) Next() error { return m.call("Next") }

// Close releases the bus connection.
func (m *MPRIS) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

// The player is resolved per command since players start and exit while the display runs.
func (m *MPRIS) call(method string) error {
	var names []string
	if err := m.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return fmt.Errorf("list bus names: %w", err)
	}

	player := choosePlayer(names, m.playbackStatus)
	if player == "" {
		return ErrUnavailable
	}

	obj := m.conn.Object(player, dbus.ObjectPath(mprisPath))
	if err := obj.Call(mprisPlayer+"."+method, 0).Err; err != nil {
		return fmt.Errorf("%s %s: %w", player, method, err)
	}
	return nil
}

func (m *MPRIS) playbackStatus(name string) string {
	v, err := m.conn.Object(name, dbus.ObjectPath(mprisPath)).GetProperty(mprisStatusProp)
	if err != nil {
		return ""
	}
	status, _ := v.Value().(string)
	return status
}
