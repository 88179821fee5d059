package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"github.com/thraizz/dominion-server-go/internal/game/match"
)

// ActionRecord is one audited call into the action delegate.
type ActionRecord struct {
	Seq        int
	Action     effects.ActionName
	PlayerID   string
	CardID     cards.ID
	Count      int
	To         cards.Location
	Source     cards.ID
	TurnNumber int
	Phase      match.Phase
	Timestamp  time.Time
}

// ActionLog is the ordered audit trail of a match.
type ActionLog struct {
	MatchID string
	Records []ActionRecord
	mu      sync.RWMutex
}

// NewActionLog creates an empty log for matchID.
func NewActionLog(matchID string) *ActionLog {
	return &ActionLog{
		MatchID: matchID,
		Records: make([]ActionRecord, 0, 64),
	}
}

// Record appends rec, assigning its sequence number.
func (l *ActionLog) Record(rec ActionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec.Seq = len(l.Records) + 1
	l.Records = append(l.Records, rec)
}

// Size returns the number of records.
func (l *ActionLog) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.Records)
}

// Since returns a copy of the records after seq.
func (l *ActionLog) Since(seq int) []ActionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if seq < 0 {
		seq = 0
	}
	if seq >= len(l.Records) {
		return nil
	}
	return append([]ActionRecord(nil), l.Records[seq:]...)
}

// actionLogMetadata heads a saved log file
type actionLogMetadata struct {
	MatchID     string
	Timestamp   time.Time
	Version     int
	RecordCount int
}

// SaveToFile writes the log to <directory>/<matchID>.actions as gzipped gob.
func (l *ActionLog) SaveToFile(directory string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.actions", l.MatchID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)
	metadata := actionLogMetadata{
		MatchID:     l.MatchID,
		Timestamp:   time.Now(),
		Version:     1,
		RecordCount: len(l.Records),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range l.Records {
		if err := encoder.Encode(&l.Records[i]); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return nil
}

// LoadActionLog reads a log written by SaveToFile.
func LoadActionLog(directory, matchID string) (*ActionLog, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.actions", matchID))

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata actionLogMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != 1 {
		return nil, fmt.Errorf("unsupported action log version: %d", metadata.Version)
	}

	log := NewActionLog(metadata.MatchID)
	for i := 0; i < metadata.RecordCount; i++ {
		var rec ActionRecord
		if err := decoder.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", i, err)
		}
		log.Records = append(log.Records, rec)
	}
	return log, nil
}
