package surface

import (
	"encoding/json"
	"io"
	"time"

	"github.com/segap/segap/pkg/scoring"
)

// Meta identifies the session a report was produced in.
type Meta struct {
	SessionID   string
	GeneratedAt time.Time
}

// Envelope is the JSON document written by JSONRenderer.
type Envelope struct {
	SessionID   string          `json:"session_id,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Report      *scoring.Report `json:"report"`
}

// JSONRenderer marshals a Report, wrapped in an Envelope, to indented JSON.
type JSONRenderer struct {
	Meta Meta
}

func (r *JSONRenderer) Render(w io.Writer, report *scoring.Report) error {
	generated := r.Meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Envelope{
		SessionID:   r.Meta.SessionID,
		GeneratedAt: generated,
		Report:      report,
	})
}
