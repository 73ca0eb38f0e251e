package bus

import "fmt"

// UnitID identifies one logical execution unit.
//
// The set is closed: every schedulable role in the node has exactly one ID,
// and the Registry holds at most one channel per ID.
type UnitID uint8

const (
	UnitUnknown UnitID = iota
	UnitMain
	UnitLink
	UnitBroker
	UnitHTTP
	UnitTCPIP
	UnitOTA
	UnitExternal
	UnitDisplay
	UnitIndicator
	UnitInput
)

// Valid reports whether id names a real execution unit.
func (id UnitID) Valid() bool {
	return id > UnitUnknown && id <= UnitInput
}

// String returns the unit name for logging.
func (id UnitID) String() string {
	switch id {
	case UnitMain:
		return "main"
	case UnitLink:
		return "link"
	case UnitBroker:
		return "broker"
	case UnitHTTP:
		return "http"
	case UnitTCPIP:
		return "tcpip"
	case UnitOTA:
		return "ota"
	case UnitExternal:
		return "external"
	case UnitDisplay:
		return "display"
	case UnitIndicator:
		return "indicator"
	case UnitInput:
		return "input"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(id))
	}
}

// MsgType identifies the purpose of a Message. The set is closed.
type MsgType uint8

const (
	MsgUnknown        MsgType = 0
	MsgStartupRequest MsgType = 1
	MsgStartupAck     MsgType = 2
	MsgHeartbeat      MsgType = 3

	MsgLinkInitRequest MsgType = 10
	MsgLinkInitDone    MsgType = 11

	MsgBrokerInitRequest MsgType = 20
	MsgBrokerInitDone    MsgType = 21
	MsgPublishRequest    MsgType = 22
	MsgPublishDone       MsgType = 23

	MsgTaskError MsgType = 255
)

// String returns the message type name for logging.
func (t MsgType) String() string {
	switch t {
	case MsgStartupRequest:
		return "startup_request"
	case MsgStartupAck:
		return "startup_ack"
	case MsgHeartbeat:
		return "heartbeat"
	case MsgLinkInitRequest:
		return "link_init_request"
	case MsgLinkInitDone:
		return "link_init_done"
	case MsgBrokerInitRequest:
		return "broker_init_request"
	case MsgBrokerInitDone:
		return "broker_init_done"
	case MsgPublishRequest:
		return "publish_request"
	case MsgPublishDone:
		return "publish_done"
	case MsgTaskError:
		return "task_error"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// maxTextLen is the capacity of each Message text field, in bytes.
// Longer values are truncated at send time.
const maxTextLen = 64

// Message is the record exchanged between execution units.
//
// Messages are transient values: they are copied into the destination channel
// on Send and never persisted. Text fields are fixed-capacity; Send silently
// clamps each one to maxTextLen bytes.
type Message struct {
	Source UnitID
	Dest   UnitID
	Type   MsgType

	IntValue  int32
	BoolValue bool

	Text  string
	Text2 string
	Text3 string
}

// normalized returns a copy of m with text fields clamped to capacity.
func (m Message) normalized() Message {
	m.Text = clampText(m.Text)
	m.Text2 = clampText(m.Text2)
	m.Text3 = clampText(m.Text3)
	return m
}

func clampText(s string) string {
	if len(s) <= maxTextLen {
		return s
	}
	return s[:maxTextLen]
}
