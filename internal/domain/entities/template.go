package entities

import "strings"

// TopicPlaceholder is substituted with the title-cased topic when a
// template is rendered
const TopicPlaceholder = "{{topic}}"

// SlideTemplate is a topic-parameterized content slide skeleton
type SlideTemplate struct {
	Title   string   `json:"title" yaml:"title"`
	Bullets []string `json:"bullets" yaml:"bullets"`
	Notes   string   `json:"notes" yaml:"notes"`
}

// Render produces a content slide with every placeholder replaced by topic
func (t SlideTemplate) Render(id, topic string) Slide {
	bullets := make([]string, len(t.Bullets))
	for i, b := range t.Bullets {
		bullets[i] = strings.ReplaceAll(b, TopicPlaceholder, topic)
	}

	return NewContentSlide(
		id,
		strings.ReplaceAll(t.Title, TopicPlaceholder, topic),
		bullets,
		strings.ReplaceAll(t.Notes, TopicPlaceholder, topic),
	)
}
