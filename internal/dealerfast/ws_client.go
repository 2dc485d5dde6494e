package dealerfast

import (
	"context"

	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

// StateEvent is one pushed frame on the dealer's state stream.
type StateEvent struct {
	Type  string              `json:"type"`
	State *pokerdto.GameState `json:"state"`
}

// ConnState tracks the push connection lifecycle.
type ConnState string

const (
	ConnDisconnected ConnState = "disconnected"
	ConnConnecting   ConnState = "connecting"
	ConnConnected    ConnState = "connected"
	ConnReconnecting ConnState = "reconnecting"
	ConnFailed       ConnState = "failed"
)

type EventCallback func(ev *StateEvent)

type ConnCallback func(state ConnState)

// FeedSocket is the push side of the state feed.
type FeedSocket interface {
	Connect(ctx context.Context) error
	OnEvent(cb EventCallback) int
	RemoveEventCallback(id int)
	OnConnChange(cb ConnCallback) int
	RemoveConnCallback(id int)
	Connected() bool
	Close(ctx context.Context) error
}
