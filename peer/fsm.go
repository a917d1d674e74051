package peer

import (
	"github.com/looplab/fsm"
)

// Handshake states.
const (
	StateInit                = "Init"
	StateVersionSent         = "VersionSent"
	StateAwaitingPeerVersion = "AwaitingPeerVersion"
	StateAwaitingPeerVerAck  = "AwaitingPeerVerAck"
	StateCompleted           = "Completed"
	StatePartiallyCompleted  = "PartiallyCompleted"
	StateFailed              = "Failed"
)

// Handshake events.
const (
	EventSendVersion   = "sendVersion"
	EventAwaitVersion  = "awaitVersion"
	EventPeerVersion   = "peerVersion"
	EventPeerVerAck    = "peerVerAck"
	EventPeerOtherThan = "peerOtherThanVerAck"
	EventFail          = "fail"
)

// NewFiniteStateMachine creates the state machine for one handshake attempt.
// The states are:
// - Init
// - VersionSent
// - AwaitingPeerVersion
// - AwaitingPeerVerAck
// - Completed, PartiallyCompleted and Failed, which are terminal
// Failed can be entered from every non-terminal state. Nothing leaves a
// terminal state.
func NewFiniteStateMachine(callbacks fsm.Callbacks, opts ...func(*fsm.FSM)) *fsm.FSM {
	if callbacks == nil {
		callbacks = fsm.Callbacks{}
	}

	finiteStateMachine := fsm.NewFSM(
		StateInit,
		fsm.Events{
			{
				Name: EventSendVersion,
				Src: []string{
					StateInit,
				},
				Dst: StateVersionSent,
			},
			{
				Name: EventAwaitVersion,
				Src: []string{
					StateVersionSent,
				},
				Dst: StateAwaitingPeerVersion,
			},
			{
				Name: EventPeerVersion,
				Src: []string{
					StateAwaitingPeerVersion,
				},
				Dst: StateAwaitingPeerVerAck,
			},
			{
				Name: EventPeerVerAck,
				Src: []string{
					StateAwaitingPeerVerAck,
				},
				Dst: StateCompleted,
			},
			{
				Name: EventPeerOtherThan,
				Src: []string{
					StateAwaitingPeerVerAck,
				},
				Dst: StatePartiallyCompleted,
			},
			{
				Name: EventFail,
				Src: []string{
					StateInit,
					StateVersionSent,
					StateAwaitingPeerVersion,
					StateAwaitingPeerVerAck,
				},
				Dst: StateFailed,
			},
		},
		callbacks,
	)

	// apply options
	for _, opt := range opts {
		opt(finiteStateMachine)
	}

	return finiteStateMachine
}

// IsTerminal reports whether state ends a handshake.
func IsTerminal(state string) bool {
	switch state {
	case StateCompleted, StatePartiallyCompleted, StateFailed:
		return true
	default:
		return false
	}
}
