// Package messages holds every message the UI loop reacts to besides raw
// terminal input. Completions carry identities, never list positions.
package messages

import (
	"time"

	"github.com/google/uuid"
)

// ConnectMsg asks to open a session to the named host, replacing any
// current session.
type ConnectMsg struct {
	Name string
}

type ConnectEstablishedMsg struct {
	SessionID uuid.UUID
}

// ConnectFailedMsg reports a failed connect or a failed health check.
type ConnectFailedMsg struct {
	SessionID uuid.UUID
	Reason    string
}

type DisconnectMsg struct{}

type DisconnectedMsg struct {
	SessionID uuid.UUID
}

type SessionAliveMsg struct {
	SessionID uuid.UUID
}

type ToggleTunnelMsg struct {
	Index int
}

type TunnelToggledMsg struct {
	ID      uuid.UUID
	Enabled bool
}

type TunnelFailedMsg struct {
	ID     uuid.UUID
	Reason string
}

type DeleteTunnelMsg struct {
	Index int
}

// TunnelDeletedMsg reports that the disable issued before removing an
// enabled tunnel has finished. Err is empty on success.
type TunnelDeletedMsg struct {
	ID  uuid.UUID
	Err string
}

type RestoreTunnelsMsg struct{}

type TickMsg time.Time
