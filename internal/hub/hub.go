package hub

import (
	"fmt"
	"log/slog"

	"github.com/nfrund/relay/internal/domain"
	"github.com/nfrund/relay/internal/metrics"
	"github.com/nfrund/relay/internal/packet"
	"github.com/nfrund/relay/internal/presence"
)

// Hub fans server packets out to connections. It never touches the registry:
// callers hand it a snapshot and a connection that fails to accept a frame is
// left for its own transport to tear down.
type Hub struct {
	logger *slog.Logger
}

// NewHub creates and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{logger: slog.Default().With("component", "hub")}
}

// Deliver encodes pkt once and queues it on every recipient. It returns the
// number of recipients that accepted the frame.
func (h *Hub) Deliver(recipients presence.Snapshot, pkt packet.Server) int {
	frame, err := packet.Encode(pkt)
	if err != nil {
		h.logger.Error("Failed to encode packet", "type", pkt.Type(), "error", err)
		return 0
	}

	h.logger.Debug("Broadcasting packet", "type", pkt.Type(), "recipient_count", recipients.Len())
	delivered := 0
	for _, id := range recipients.Identities() {
		if err := h.send(id.Conn, pkt.Type(), frame); err != nil {
			h.logger.Warn("Skipping recipient",
				"type", pkt.Type(),
				"connID", id.ConnID,
				"username", id.Username,
				"error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// Send queues pkt on a single connection.
func (h *Hub) Send(conn domain.Connection, pkt packet.Server) error {
	frame, err := packet.Encode(pkt)
	if err != nil {
		return fmt.Errorf("encode %s: %w", pkt.Type(), err)
	}
	if err := h.send(conn, pkt.Type(), frame); err != nil {
		h.logger.Debug("Send failed", "type", pkt.Type(), "connID", conn.ID(), "error", err)
		return err
	}
	return nil
}

func (h *Hub) send(conn domain.Connection, typ packet.ServerType, frame []byte) error {
	label := string(typ)
	if err := conn.Send(frame); err != nil {
		metrics.DeliveryFailures.WithLabelValues(label).Inc()
		return fmt.Errorf("deliver %s to %s: %w", typ, conn.ID(), err)
	}
	metrics.DeliveriesTotal.WithLabelValues(label).Inc()
	return nil
}
