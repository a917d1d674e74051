package prober

import (
	"github.com/bitcoin-sv/handshake/peer"
	"github.com/bitcoin-sv/handshake/ulogger"
)

// EventListener observes a run. OnOutcome is called once per target as the
// attempt completes and OnSummary once at the end. Calls come from the
// goroutine running Run, never concurrently.
type EventListener interface {
	OnOutcome(o *peer.Outcome)
	OnSummary(r *Report)
}

// LoggingListener writes the run to a logger.
type LoggingListener struct {
	logger ulogger.Logger
}

func NewLoggingListener(logger ulogger.Logger) *LoggingListener {
	return &LoggingListener{logger: logger}
}

func (l *LoggingListener) OnOutcome(o *peer.Outcome) {
	switch o.Kind {
	case peer.OutcomeOk:
		if o.PeerVersion != nil {
			l.logger.Infof("[%s] handshake %s in %s, %s", o.Addr, o.Kind, o.Duration, o.PeerVersion)
		} else {
			l.logger.Infof("[%s] handshake %s in %s", o.Addr, o.Kind, o.Duration)
		}
	case peer.OutcomePartiallyOk:
		l.logger.Warnf("[%s] handshake %s: expected verack but got %s instead", o.Addr, o.Kind, o.Command)
	default:
		l.logger.Errorf("[%s] handshake %s (%s) in state %s: %v", o.Addr, o.Kind, o.Cause, o.FinalState, o.Err)
	}
}

func (l *LoggingListener) OnSummary(r *Report) {
	l.logger.Infof("%s", r)
}

// ListenerFunc adapts a plain outcome callback into an EventListener that
// ignores the summary.
type ListenerFunc func(o *peer.Outcome)

func (f ListenerFunc) OnOutcome(o *peer.Outcome) {
	f(o)
}

func (f ListenerFunc) OnSummary(*Report) {}
