package channel

// State is the lifecycle state of the event channel.
type State int

const (
	Idle State = iota
	Connecting
	AwaitingAck
	Connected
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case AwaitingAck:
		return "awaiting_ack"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Delivery is one item on the client's output stream: either a decoded
// envelope or a state transition, never both.
type Delivery struct {
	Envelope *Envelope
	State    State
}

// IsState reports whether the delivery carries a state transition.
func (d Delivery) IsState() bool { return d.Envelope == nil }
