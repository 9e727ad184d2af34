package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"freela/internal/core"
)

// BackupVersion is the format version written by NewBackup.
const BackupVersion = "1.0"

// Backup is a full snapshot of the data. Importing it replaces everything.
type Backup struct {
	Version      string             `json:"version"`
	ExportDate   time.Time          `json:"exportDate"`
	Events       []core.Event       `json:"events"`
	Transactions []core.Transaction `json:"transactions"`
	Settings     *core.Settings     `json:"settings"`
}

func NewBackup(events []core.Event, txs []core.Transaction, settings core.Settings, now time.Time) Backup {
	if events == nil {
		events = []core.Event{}
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return Backup{
		Version:      BackupVersion,
		ExportDate:   now.UTC(),
		Events:       events,
		Transactions: txs,
		Settings:     &settings,
	}
}

// DecodeBackup reads a backup document. It does not validate the records.
func DecodeBackup(r io.Reader) (Backup, error) {
	var b Backup
	dec := json.NewDecoder(r)
	if err := dec.Decode(&b); err != nil {
		return Backup{}, core.Validation("invalid backup file: %v", err)
	}
	return b, nil
}

// Validate checks every record and the references between them, returning the
// restored transactions.
func (b Backup) Validate() ([]core.Transaction, error) {
	if b.Version != BackupVersion {
		return nil, core.Validation("unsupported backup version %q", b.Version)
	}
	eventIDs := make(map[string]bool, len(b.Events))
	for i, e := range b.Events {
		if err := e.ValidateStored(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if eventIDs[e.ID] {
			return nil, core.Validation("duplicate event id %s", e.ID)
		}
		eventIDs[e.ID] = true
	}
	txIDs := make(map[string]bool, len(b.Transactions))
	restored := make([]core.Transaction, 0, len(b.Transactions))
	for i, t := range b.Transactions {
		rt, err := core.RestoreTransaction(t)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if !eventIDs[rt.EventID] {
			return nil, core.Validation("transaction %s references unknown event %s", rt.ID, rt.EventID)
		}
		if txIDs[rt.ID] {
			return nil, core.Validation("duplicate transaction id %s", rt.ID)
		}
		txIDs[rt.ID] = true
		restored = append(restored, rt)
	}
	if b.Settings != nil {
		if err := b.Settings.Validate(); err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
	}
	return restored, nil
}
