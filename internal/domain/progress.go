package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Progress record validation errors
var (
	ErrProgressUserIDEmpty = fmt.Errorf("%w: progress user ID cannot be empty", ErrValidation)
	ErrProgressSetIDEmpty  = fmt.Errorf("%w: progress set ID cannot be empty", ErrValidation)
	ErrProgressCounts      = fmt.Errorf("%w: cards correct must be between 0 and cards studied", ErrValidation)
	ErrProgressPercentage  = fmt.Errorf("%w: completion percentage must be between 0 and 100", ErrValidation)
)

// ProgressRecord is the persisted summary of one completed study pass.
type ProgressRecord struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	SetID                uuid.UUID `json:"set_id"`
	CardsStudied         int       `json:"cards_studied"`
	CardsCorrect         int       `json:"cards_correct"`
	CompletionPercentage float64   `json:"completion_percentage"`
	CompletedAt          time.Time `json:"completed_at"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewProgressRecord builds a record for a completed pass.
func NewProgressRecord(
	userID, setID uuid.UUID,
	cardsStudied, cardsCorrect int,
	percentage float64,
	completedAt time.Time,
) (*ProgressRecord, error) {
	record := &ProgressRecord{
		ID:                   uuid.New(),
		UserID:               userID,
		SetID:                setID,
		CardsStudied:         cardsStudied,
		CardsCorrect:         cardsCorrect,
		CompletionPercentage: percentage,
		CompletedAt:          completedAt.UTC(),
		CreatedAt:            time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// Validate checks if the ProgressRecord has valid data.
func (p *ProgressRecord) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrProgressUserIDEmpty
	}
	if p.SetID == uuid.Nil {
		return ErrProgressSetIDEmpty
	}
	if p.CardsStudied < 0 || p.CardsCorrect < 0 || p.CardsCorrect > p.CardsStudied {
		return ErrProgressCounts
	}
	if p.CompletionPercentage < 0 || p.CompletionPercentage > 100 {
		return ErrProgressPercentage
	}
	return nil
}
