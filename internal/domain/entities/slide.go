package entities

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SlideType identifies the layout variant of a slide
type SlideType string

const (
	SlideTypeTitle   SlideType = "title"
	SlideTypeContent SlideType = "content"
)

// Variant holds the fields that only make sense for one kind of slide.
// It is implemented by TitleVariant and ContentVariant.
type Variant interface {
	Kind() SlideType
	clone() Variant
}

// TitleVariant is the opening slide layout: a centered title and subtitle
type TitleVariant struct {
	Subtitle string
}

// Kind implements Variant
func (TitleVariant) Kind() SlideType { return SlideTypeTitle }

func (v TitleVariant) clone() Variant { return v }

// ContentVariant is a bulleted slide with an optional embedded image
type ContentVariant struct {
	Bullets []string
	// Image is a data URI ("data:image/png;base64,...") or empty
	Image string
}

// Kind implements Variant
func (ContentVariant) Kind() SlideType { return SlideTypeContent }

func (v ContentVariant) clone() Variant {
	if v.Bullets != nil {
		v.Bullets = append([]string(nil), v.Bullets...)
	}
	return v
}

// Slide represents a single slide in a deck
type Slide struct {
	// ID is unique within a deck
	ID string

	Title string

	// Notes contains speaker notes for this slide
	Notes string

	// Variant is either TitleVariant or ContentVariant
	Variant Variant
}

// NewTitleSlide creates a title slide
func NewTitleSlide(id, title, subtitle, notes string) Slide {
	return Slide{ID: id, Title: title, Notes: notes, Variant: TitleVariant{Subtitle: subtitle}}
}

// NewContentSlide creates a content slide
func NewContentSlide(id, title string, bullets []string, notes string) Slide {
	return Slide{ID: id, Title: title, Notes: notes, Variant: ContentVariant{Bullets: bullets}}
}

// Type returns the slide type, defaulting to content when no variant is set
func (s Slide) Type() SlideType {
	if s.Variant == nil {
		return SlideTypeContent
	}
	return s.Variant.Kind()
}

// IsTitle reports whether s uses the title layout
func (s Slide) IsTitle() bool {
	return s.Type() == SlideTypeTitle
}

// Subtitle returns the subtitle of a title slide, or "" for content slides
func (s Slide) Subtitle() string {
	if v, ok := s.Variant.(TitleVariant); ok {
		return v.Subtitle
	}
	return ""
}

// Bullets returns the bullets of a content slide, or nil for title slides
func (s Slide) Bullets() []string {
	if v, ok := s.Variant.(ContentVariant); ok {
		return v.Bullets
	}
	return nil
}

// Image returns the image data URI of a content slide
func (s Slide) Image() string {
	if v, ok := s.Variant.(ContentVariant); ok {
		return v.Image
	}
	return ""
}

// Clone returns a deep copy of the slide
func (s Slide) Clone() Slide {
	if s.Variant != nil {
		s.Variant = s.Variant.clone()
	}
	return s
}

// Validate ensures the slide can be rendered
func (s Slide) Validate() error {
	if s.ID == "" {
		return errors.New("slide id cannot be empty")
	}
	return nil
}

// slideWire is the flat interchange form shared with browser clients
type slideWire struct {
	ID       string    `json:"id" yaml:"id"`
	Type     SlideType `json:"type" yaml:"type"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle *string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Bullets  []string  `json:"bullets,omitempty" yaml:"bullets,omitempty"`
	Notes    string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Image    *string   `json:"image,omitempty" yaml:"image,omitempty"`
}

func (s Slide) toWire() slideWire {
	w := slideWire{ID: s.ID, Type: s.Type(), Title: s.Title, Notes: s.Notes}
	switch v := s.Variant.(type) {
	case TitleVariant:
		if v.Subtitle != "" {
			subtitle := v.Subtitle
			w.Subtitle = &subtitle
		}
	case ContentVariant:
		w.Bullets = v.Bullets
		if v.Image != "" {
			image := v.Image
			w.Image = &image
		}
	}
	return w
}

func (w slideWire) toSlide() Slide {
	s := Slide{ID: w.ID, Title: w.Title, Notes: w.Notes}
	if w.Type == SlideTypeTitle {
		v := TitleVariant{}
		if w.Subtitle != nil {
			v.Subtitle = *w.Subtitle
		}
		s.Variant = v
		return s
	}

	v := ContentVariant{Bullets: w.Bullets}
	if w.Image != nil {
		v.Image = *w.Image
	}
	s.Variant = v
	return s
}

// MarshalJSON encodes the slide in its flat interchange form
func (s Slide) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toWire())
}

// UnmarshalJSON decodes the flat interchange form. Any type other than
// "title" decodes to a content slide.
func (s *Slide) UnmarshalJSON(data []byte) error {
	var w slideWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding slide: %w", err)
	}
	*s = w.toSlide()
	return nil
}

// MarshalYAML encodes the slide in its flat interchange form
func (s Slide) MarshalYAML() (interface{}, error) {
	return s.toWire(), nil
}

// UnmarshalYAML decodes the flat interchange form
func (s *Slide) UnmarshalYAML(node *yaml.Node) error {
	var w slideWire
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("decoding slide: %w", err)
	}
	*s = w.toSlide()
	return nil
}
