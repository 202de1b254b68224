package deckfile

import (
	"encoding/csv"
	"fmt"
	"io"
)

func decodeCSV(r io.Reader) (*Deck, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV: %w", ErrInvalidDeck, err)
	}
	cards, err := rowsToCards(rows)
	if err != nil {
		return nil, err
	}
	return &Deck{Cards: cards}, nil
}

func encodeCSV(w io.Writer, deck *Deck) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"term", "definition"}); err != nil {
		return fmt.Errorf("failed to write CSV deck: %w", err)
	}
	for _, c := range deck.Cards {
		if err := writer.Write([]string{c.Term, c.Definition}); err != nil {
			return fmt.Errorf("failed to write CSV deck: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
