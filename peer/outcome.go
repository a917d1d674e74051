package peer

import (
	"net/netip"
	"time"

	"github.com/bitcoin-sv/handshake/wire"
)

// OutcomeKind is the classification of one handshake attempt.
type OutcomeKind int

const (
	// OutcomeOk means version and verack were exchanged both ways.
	OutcomeOk OutcomeKind = iota
	// OutcomePartiallyOk means the peer sent its version but followed it with
	// something other than verack.
	OutcomePartiallyOk
	// OutcomeFailed means the attempt did not get as far as the peer's verack
	// position. Cause says why.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOk:
		return "OK"
	case OutcomePartiallyOk:
		return "PARTIALLY OK"
	case OutcomeFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// FailureCause says why an attempt failed.
type FailureCause int

const (
	CauseNone FailureCause = iota
	CauseConnect
	CauseIO
	CauseDecode
	CauseUnexpectedCommand
	CauseTimeout
	CauseSelfConnection
	CauseInternal
)

var causeNames = map[FailureCause]string{
	CauseNone:              "none",
	CauseConnect:           "connect",
	CauseIO:                "io",
	CauseDecode:            "decode",
	CauseUnexpectedCommand: "unexpected_command",
	CauseTimeout:           "timeout",
	CauseSelfConnection:    "self_connection",
	CauseInternal:          "internal",
}

// String returns the cause as a lower case label, suitable for metrics.
func (c FailureCause) String() string {
	if s, ok := causeNames[c]; ok {
		return s
	}

	return "unknown"
}

// Outcome is the result of one handshake attempt.
type Outcome struct {
	Addr  netip.AddrPort
	Kind  OutcomeKind
	Cause FailureCause

	// Command is the message that broke the expected sequence: the command
	// that replaced verack for OutcomePartiallyOk, or the first command for
	// CauseUnexpectedCommand.
	Command string

	// Err is the coded error behind a failure.
	Err error

	FinalState  string
	PeerVersion *wire.MsgVersion
	Duration    time.Duration
}

// NewFailedOutcome returns a failed outcome for addr that never got to run the
// state machine.
func NewFailedOutcome(addr netip.AddrPort, cause FailureCause, err error) *Outcome {
	return &Outcome{
		Addr:       addr,
		Kind:       OutcomeFailed,
		Cause:      cause,
		Err:        err,
		FinalState: StateFailed,
	}
}
