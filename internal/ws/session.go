package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dbwlsddd/Safety/internal/codec"
	"github.com/dbwlsddd/Safety/internal/domain"
	"github.com/dbwlsddd/Safety/internal/service"
)

// Conn is the transport surface a session drives. Satisfied by
// *websocket.Conn; tests substitute a scripted connection.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

// textMessage mirrors websocket.TextMessage without importing the
// websocket package into the session logic.
const textMessage = 1

// Identifier is the recognition pipeline surface the session drives.
type Identifier interface {
	Identify(ctx context.Context, image []byte) (*domain.IdentificationResult, error)
}

// ComplianceChecker is the PPE verification surface the session drives.
type ComplianceChecker interface {
	Check(ctx context.Context, image []byte, required map[string]struct{}) (*domain.ComplianceVerdict, error)
}

// Session owns one streaming connection: the current required-equipment
// set, the miss policy, and the per-frame receive→decide→respond loop.
// Messages are processed strictly sequentially; a CONFIG message always
// takes effect before any frame received after it.
type Session struct {
	conn       Conn
	recognizer Identifier
	compliance ComplianceChecker
	required   map[string]struct{}
	policy     MissPolicy
	remote     string
	logger     *slog.Logger
}

func NewSession(conn Conn, recognizer Identifier, compliance ComplianceChecker, defaultRequired []string, policy MissPolicy, remote string, logger *slog.Logger) *Session {
	return &Session{
		conn:       conn,
		recognizer: recognizer,
		compliance: compliance,
		required:   service.CanonicalSet(defaultRequired),
		policy:     policy,
		remote:     remote,
		logger:     logger.With(slog.String("remote", remote)),
	}
}

// Run drives the session until the client disconnects, the transport
// fails, or ctx is canceled. Per-frame errors never end the loop; only
// transport errors do. The in-flight frame always completes before the
// loop observes cancellation.
func (s *Session) Run(ctx context.Context) {
	s.logger.Info("session started")
	defer s.logger.Info("session closed")

	for {
		if err := ctx.Err(); err != nil {
			return
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Debug("receive ended", slog.Any("error", err))
			return
		}

		s.dispatch(ctx, data)
	}
}

// dispatch routes one inbound message. Malformed messages are skipped
// without closing the connection.
func (s *Session) dispatch(ctx context.Context, data []byte) {
	var msg inboundMessage
	imagePayload := ""

	if err := json.Unmarshal(data, &msg); err != nil {
		// Legacy clients send the base64 frame with no JSON envelope.
		imagePayload = string(data)
	} else if msg.Type == messageTypeConfig {
		s.applyConfig(msg.Required)
		return
	} else {
		imagePayload = msg.Image
	}

	s.handleFrame(ctx, imagePayload)
}

// applyConfig replaces the session's required-equipment set. The new set
// governs every frame received after this message.
func (s *Session) applyConfig(required []string) {
	s.required = service.CanonicalSet(required)
	if len(s.required) == 0 {
		s.logger.Warn("config set an empty required-equipment set")
	}
	labels := make([]string, 0, len(s.required))
	for label := range s.required {
		labels = append(labels, label)
	}
	s.logger.Info("required equipment updated", slog.Any("required", labels))
}

// handleFrame runs the two-stage pipeline for one frame: identify, and
// only on success, verify equipment and respond.
func (s *Session) handleFrame(ctx context.Context, payload string) {
	image, err := codec.DecodeBase64(payload)
	if err != nil {
		s.logger.Debug("frame skipped", slog.Any("error", err))
		return
	}

	worker, err := s.recognizer.Identify(ctx, image)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFaceDetected):
			// Empty frames are routine in a live stream; stay silent.
		case errors.Is(err, domain.ErrNoMatch):
			if s.policy == MissPolicyReport {
				s.send(failureResponse{Status: statusFailure, Message: "no matching worker"})
			}
		default:
			// Resolver failures are recoverable: keep the session and try
			// the next frame.
			s.logger.Error("identification failed", slog.Any("error", err))
		}
		return
	}

	verdict, err := s.compliance.Check(ctx, image, s.required)
	if err != nil {
		// Check fails closed; the verdict is still valid to report.
		s.logger.Error("compliance check failed", slog.Any("error", err))
	}

	s.send(successResponse{
		Status:    statusSuccess,
		Worker:    worker,
		PPEStatus: verdict,
	})
}

func (s *Session) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("marshal response", slog.Any("error", err))
		return
	}
	if err := s.conn.WriteMessage(textMessage, data); err != nil {
		s.logger.Debug("send failed", slog.Any("error", err))
	}
}
