package services

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// UpdateAction names the rule an update prompt resolved to
type UpdateAction string

const (
	UpdateActionAdd    UpdateAction = "add"
	UpdateActionRemove UpdateAction = "remove"
	UpdateActionChange UpdateAction = "change"
	UpdateActionNone   UpdateAction = "none"
)

// minRemovalTokenLen is the length a prompt word must exceed to be used for
// content-based removal
const minRemovalTokenLen = 4

// UpdateRule pairs a predicate on the lower-cased prompt with the edit it
// triggers
type UpdateRule struct {
	Action UpdateAction
	Match  func(lowerPrompt string) bool
	Apply  func(prompt string, deck entities.Deck) entities.Deck
}

// UpdateInterpreter edits an existing deck according to a follow-up prompt.
// Rules are evaluated in order and the first match wins. A prompt matching
// no rule leaves the deck unchanged.
type UpdateInterpreter struct {
	ids   ports.IDGenerator
	rules []UpdateRule
}

// NewUpdateInterpreter creates an interpreter with the add, remove and
// change rules
func NewUpdateInterpreter(ids ports.IDGenerator) *UpdateInterpreter {
	u := &UpdateInterpreter{ids: ids}
	u.rules = []UpdateRule{
		{Action: UpdateActionAdd, Match: containsAny("add", "insert"), Apply: u.addSlide},
		{Action: UpdateActionRemove, Match: containsAny("remove", "delete"), Apply: removeSlides},
		{Action: UpdateActionChange, Match: containsAny("change", "modify"), Apply: markChanged},
	}
	return u
}

// Apply returns the edited deck and the action taken. The input deck is
// never modified.
func (u *UpdateInterpreter) Apply(prompt string, deck entities.Deck) (entities.Deck, UpdateAction) {
	lower := strings.ToLower(prompt)
	for _, rule := range u.rules {
		if rule.Match(lower) {
			return rule.Apply(prompt, deck), rule.Action
		}
	}
	return deck.Clone(), UpdateActionNone
}

func (u *UpdateInterpreter) addSlide(_ string, deck entities.Deck) entities.Deck {
	out := deck.Clone()
	return append(out, entities.NewContentSlide(
		u.ids.NewID(),
		"New Slide",
		[]string{"New content point 1", "New content point 2", "New content point 3"},
		"This is a newly added slide.",
	))
}

func removeSlides(prompt string, deck entities.Deck) entities.Deck {
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "last"):
		if len(deck) == 0 {
			return deck.Clone()
		}
		return deck[:len(deck)-1].Clone()
	case strings.Contains(lower, "first"):
		if len(deck) == 0 {
			return deck.Clone()
		}
		return deck[1:].Clone()
	}

	// Tokens keep the caller's casing and are compared against lower-cased
	// slide text.
	var tokens []string
	for _, word := range strings.Fields(prompt) {
		if utf8.RuneCountInString(word) > minRemovalTokenLen {
			tokens = append(tokens, word)
		}
	}

	out := make(entities.Deck, 0, len(deck))
	for _, slide := range deck {
		text := strings.ToLower(slide.Title + " " + strings.Join(slide.Bullets(), " "))
		if !containsAny(tokens...)(text) {
			out = append(out, slide.Clone())
		}
	}
	return out
}

func markChanged(prompt string, deck entities.Deck) entities.Deck {
	lower := strings.ToLower(prompt)

	out := deck.Clone()
	for i := range out {
		if !strings.Contains(lower, "slide "+strconv.Itoa(i+1)) {
			continue
		}

		out[i].Title += " (Updated)"
		if v, ok := out[i].Variant.(entities.ContentVariant); ok {
			for j := range v.Bullets {
				v.Bullets[j] += " - modified"
			}
			out[i].Variant = v
		}
	}
	return out
}

// containsAny returns a predicate true when s contains any of the words
func containsAny(words ...string) func(s string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}
