// Package deckfile reads and writes flashcard decks as YAML, CSV or XLSX.
//
// Tabular formats carry two columns, term then definition, with an optional
// "term,definition" header row. Blank rows are skipped. YAML decks also carry
// a title, description and visibility.
package deckfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/flipdeck/internal/domain"
)

// Format names a deck file encoding.
type Format string

// Supported formats
const (
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Deck errors
var (
	ErrUnsupportedFormat = errors.New("unsupported deck format")
	ErrEmptyDeck         = errors.New("deck has no cards")
	ErrMalformedRow      = errors.New("malformed deck row")
	ErrInvalidDeck       = errors.New("invalid deck file")
)

// Deck is the portable form of a set.
type Deck struct {
	Title       string               `yaml:"title"`
	Description string               `yaml:"description,omitempty"`
	Public      bool                 `yaml:"public"`
	Cards       []domain.CardContent `yaml:"cards"`
}

// ParseFormat maps a format name such as "yml" or "XLSX" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type used when serving a deck.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Decode reads a deck in format f. The deck must contain at least one card.
func Decode(r io.Reader, f Format) (*Deck, error) {
	var (
		deck *Deck
		err  error
	)
	switch f {
	case FormatYAML:
		deck, err = decodeYAML(r)
	case FormatCSV:
		deck, err = decodeCSV(r)
	case FormatXLSX:
		deck, err = decodeXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}

	deck.Cards = compact(deck.Cards)
	if len(deck.Cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return deck, nil
}

// Encode writes deck in format f. Tabular formats drop the deck metadata.
func Encode(w io.Writer, f Format, deck *Deck) error {
	switch f {
	case FormatYAML:
		return encodeYAML(w, deck)
	case FormatCSV:
		return encodeCSV(w, deck)
	case FormatXLSX:
		return encodeXLSX(w, deck)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// Load reads the deck file at path. Decks without a title are named after
// the file.
func Load(path string) (*Deck, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck: %w", err)
	}
	defer func() { _ = file.Close() }()

	deck, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(deck.Title) == "" {
		deck.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return deck, nil
}

// compact trims card text and drops cards with neither side filled in.
func compact(cards []domain.CardContent) []domain.CardContent {
	out := make([]domain.CardContent, 0, len(cards))
	for _, c := range cards {
		c.Term = strings.TrimSpace(c.Term)
		c.Definition = strings.TrimSpace(c.Definition)
		if c.Term == "" && c.Definition == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// rowsToCards converts tabular rows, skipping a header when it is the first
// non-blank row.
func rowsToCards(rows [][]string) ([]domain.CardContent, error) {
	cards := make([]domain.CardContent, 0, len(rows))
	seenContent := false
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		first := !seenContent
		seenContent = true
		if first && isHeader(row) {
			continue
		}
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[1]) == "" {
			return nil, fmt.Errorf("%w: row %d needs a term and a definition", ErrMalformedRow, i+1)
		}
		cards = append(cards, domain.CardContent{Term: row[0], Definition: row[1]})
	}
	return cards, nil
}

func isHeader(row []string) bool {
	return len(row) >= 2 &&
		strings.EqualFold(strings.TrimSpace(row[0]), "term") &&
		strings.EqualFold(strings.TrimSpace(row[1]), "definition")
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
