package ws

import (
	"github.com/dbwlsddd/Safety/internal/domain"
)

// messageTypeConfig marks an inbound reconfiguration message.
const messageTypeConfig = "CONFIG"

const (
	statusSuccess = "SUCCESS"
	statusFailure = "FAILURE"
)

// inboundMessage is the JSON envelope a streaming client sends. A frame
// message carries Image; a config message carries Type=CONFIG and Required.
// Clients predating the envelope send a bare base64 string instead, which
// is handled before JSON parsing is attempted.
type inboundMessage struct {
	Type     string   `json:"type"`
	Required []string `json:"required"`
	Image    string   `json:"image"`
}

// successResponse is emitted when a frame identifies a worker. PPEStatus is
// the compliance verdict for the same frame.
type successResponse struct {
	Status    string                       `json:"status"`
	Worker    *domain.IdentificationResult `json:"worker"`
	PPEStatus *domain.ComplianceVerdict    `json:"ppe_status"`
}

// failureResponse is emitted only under MissPolicyReport, and only when a
// face was found but matched no enrolled worker.
type failureResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MissPolicy decides what a session sends when a found face matches no
// worker: nothing (the client tolerates silence as "still processing") or
// an explicit FAILURE message.
type MissPolicy string

const (
	MissPolicySilent MissPolicy = "silent"
	MissPolicyReport MissPolicy = "report"
)

// ParseMissPolicy maps a config string onto a MissPolicy, defaulting to
// silent for unknown values.
func ParseMissPolicy(s string) MissPolicy {
	if MissPolicy(s) == MissPolicyReport {
		return MissPolicyReport
	}
	return MissPolicySilent
}
