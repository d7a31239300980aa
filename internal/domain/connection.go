package domain

// Close reasons attached to a connection when it is torn down. They are
// informational: they change log wording, never protocol behaviour.
const (
	CloseReasonLeaving      = "leaving"
	CloseReasonTimeout      = "timeout"
	CloseReasonDisconnected = "disconnected"
	CloseReasonShutdown     = "shutdown"
)

// Connection is one client's transport session as seen by the chat core.
// The transport owns it; the registry only references it.
type Connection interface {
	// ID is stable for the lifetime of the transport session.
	ID() string

	// Send queues an encoded frame for delivery. It fails once the
	// connection is closed or when its outbound queue is full.
	Send(frame []byte) error

	// Close starts a graceful close tagged with reason. The transport reports
	// the close back to the router once the session has actually ended.
	Close(reason string) error
}
