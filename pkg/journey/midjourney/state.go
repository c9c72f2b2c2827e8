package midjourney

import "sync/atomic"

type State int32

const (
	StateIdle State = iota
	StateAuthenticating
	StateAwaitingReply
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateAwaitingReply:
		return "awaiting-reply"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type stateHolder struct {
	v atomic.Int32
}

func (h *stateHolder) Load() State {
	return State(h.v.Load())
}

func (h *stateHolder) Store(s State) {
	h.v.Store(int32(s))
}
