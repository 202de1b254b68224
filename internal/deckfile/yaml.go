package deckfile

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func decodeYAML(r io.Reader) (*Deck, error) {
	var deck Deck
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&deck); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyDeck
		}
		return nil, fmt.Errorf("%w: YAML: %w", ErrInvalidDeck, err)
	}
	return &deck, nil
}

func encodeYAML(w io.Writer, deck *Deck) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(deck); err != nil {
		return fmt.Errorf("failed to write YAML deck: %w", err)
	}
	return enc.Close()
}
