// Package notify moves summary-email work between the API process and
// the worker: the API publishes a request on AMQP, the worker consumes
// it, renders the report and delivers it over SMTP.
package notify

import (
	"encoding/json"
	"time"
)

// SummaryRequest asks the worker to email the monthly summary of one
// user. It carries only coordinates; the worker recomputes the numbers
// from storage so the email is never stale.
type SummaryRequest struct {
	Username  string     `json:"username"`
	Recipient string     `json:"recipient"`
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewSummaryRequest builds a request stamped with the current time.
func NewSummaryRequest(username, recipient string, year int, month time.Month) *SummaryRequest {
	return &SummaryRequest{
		Username:  username,
		Recipient: recipient,
		Year:      year,
		Month:     month,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the request to JSON bytes.
func (m *SummaryRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SummaryRequestFromJSON parses a request from JSON bytes.
func SummaryRequestFromJSON(data []byte) (*SummaryRequest, error) {
	var msg SummaryRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
