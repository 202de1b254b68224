package deckfile

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func decodeXLSX(r io.Reader) (*Deck, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: XLSX: %w", ErrInvalidDeck, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyDeck
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: XLSX rows: %w", ErrInvalidDeck, err)
	}

	cards, err := rowsToCards(rows)
	if err != nil {
		return nil, err
	}
	return &Deck{Cards: cards}, nil
}

func encodeXLSX(w io.Writer, deck *Deck) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"term", "definition"}); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}
	for i, c := range deck.Cards {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{c.Term, c.Definition}); err != nil {
			return fmt.Errorf("failed to write XLSX row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX deck: %w", err)
	}
	return nil
}
