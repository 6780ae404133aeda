package amqp

import (
	"encoding/json"
	"time"
)

// ContributionSyncMessage asks the worker to export one contribution to the
// backup sheet. It carries only the ID, the worker reads the full record
// from the database so the payload never goes stale in the queue.
type ContributionSyncMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewContributionSyncMessage(id string) *ContributionSyncMessage {
	return &ContributionSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *ContributionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ContributionSyncMessageFromJSON(data []byte) (*ContributionSyncMessage, error) {
	var msg ContributionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errEmptyMessageID
	}
	return &msg, nil
}
