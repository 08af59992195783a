package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

// SummaryCreatedMessage announces a newly stored monthly summary.
// Consumers fetch the full summary from the store by user and period.
type SummaryCreatedMessage struct {
	SummaryID uuid.UUID `json:"summary_id"`
	UserID    uuid.UUID `json:"user_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSummaryCreatedMessage creates a message for summary
func NewSummaryCreatedMessage(summary *domain.MonthlySummary, at time.Time) *SummaryCreatedMessage {
	return &SummaryCreatedMessage{
		SummaryID: summary.ID,
		UserID:    summary.UserID,
		Year:      summary.Year,
		Month:     summary.Month,
		Timestamp: at,
	}
}

// Period returns the period the summary covers
func (m *SummaryCreatedMessage) Period() domain.Period {
	return domain.Period{Year: m.Year, Month: m.Month}
}

// ToJSON converts the message to JSON bytes
func (m *SummaryCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SummaryCreatedMessageFromJSON creates a message from JSON bytes
func SummaryCreatedMessageFromJSON(data []byte) (*SummaryCreatedMessage, error) {
	var msg SummaryCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
