package entities

import (
	"errors"
	"fmt"
)

// Deck is an ordered sequence of slides. Order is presentation order.
type Deck []Slide

// Clone returns a deep copy of the deck
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	for i, s := range d {
		out[i] = s.Clone()
	}
	return out
}

// SlideCount returns the total number of slides
func (d Deck) SlideCount() int {
	return len(d)
}

// GetSlideByIndex returns a slide by its index (0-based)
func (d Deck) GetSlideByIndex(index int) (Slide, error) {
	if index < 0 || index >= len(d) {
		return Slide{}, fmt.Errorf("slide index %d out of range (0-%d)", index, len(d)-1)
	}
	return d[index], nil
}

// Validate ensures the deck can be exported: at least one slide and
// unique, non-empty ids.
func (d Deck) Validate() error {
	if len(d) == 0 {
		return errors.New("deck must have at least one slide")
	}

	seen := make(map[string]int, len(d))
	for i, slide := range d {
		if err := slide.Validate(); err != nil {
			return fmt.Errorf("slide %d validation failed: %w", i+1, err)
		}
		if prev, ok := seen[slide.ID]; ok {
			return fmt.Errorf("slide %d reuses id %q of slide %d", i+1, slide.ID, prev+1)
		}
		seen[slide.ID] = i
	}

	return nil
}

// Title returns the title of the first title slide, or "" if there is none
func (d Deck) Title() string {
	for _, s := range d {
		if s.IsTitle() && s.Title != "" {
			return s.Title
		}
	}
	return ""
}
