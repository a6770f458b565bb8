package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// Deck file formats
const (
	deckFormatJSON = "json"
	deckFormatYAML = "yaml"
)

// deckFormat normalises format, inferring it from path when empty
func deckFormat(format, path string) (string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return deckFormatYAML, nil
		default:
			return deckFormatJSON, nil
		}
	}

	switch strings.ToLower(format) {
	case "json":
		return deckFormatJSON, nil
	case "yaml", "yml":
		return deckFormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported deck format %q (must be json or yaml)", format)
	}
}

// decodeDeck parses a deck in the given format
func decodeDeck(data []byte, format string) (entities.Deck, error) {
	var deck entities.Deck

	switch format {
	case deckFormatYAML:
		if err := yaml.Unmarshal(data, &deck); err != nil {
			return nil, fmt.Errorf("parsing YAML deck: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &deck); err != nil {
			return nil, fmt.Errorf("parsing JSON deck: %w", err)
		}
	}

	return deck, nil
}

// readDeckFile loads a json or yaml deck, picking the format by extension
func readDeckFile(path string) (entities.Deck, error) {
	format, err := deckFormat("", path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - user supplied deck file
	if err != nil {
		return nil, fmt.Errorf("reading deck file: %w", err)
	}

	return decodeDeck(data, format)
}

// encodeDeck writes deck to w
func encodeDeck(w io.Writer, deck entities.Deck, format string) error {
	if deck == nil {
		deck = entities.Deck{}
	}

	switch format {
	case deckFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(deck); err != nil {
			return fmt.Errorf("encoding YAML deck: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(deck); err != nil {
			return fmt.Errorf("encoding JSON deck: %w", err)
		}
		return nil
	}
}

// writeDeckFile saves deck to path
func writeDeckFile(path string, deck entities.Deck, format string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304 - user supplied output path
	if err != nil {
		return fmt.Errorf("creating deck file: %w", err)
	}

	if err := encodeDeck(f, deck, format); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
