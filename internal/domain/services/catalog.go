package services

import (
	"strings"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// TopicBucket groups the templates used for one family of topics
type TopicBucket struct {
	Name      string
	Keywords  []string
	Templates []entities.SlideTemplate
}

// Matches reports whether the lower-cased topic contains any bucket keyword.
// A bucket without keywords matches everything.
func (b TopicBucket) Matches(lowerTopic string) bool {
	if len(b.Keywords) == 0 {
		return true
	}
	for _, kw := range b.Keywords {
		if strings.Contains(lowerTopic, kw) {
			return true
		}
	}
	return false
}

// TemplateCatalog resolves a topic to its bucket. Buckets are tested in
// order and the first match wins, so a topic mentioning both "ai" and
// "business" resolves to technology.
type TemplateCatalog struct {
	buckets  []TopicBucket
	fallback TopicBucket
}

// NewTemplateCatalog creates a catalog with the built-in buckets
func NewTemplateCatalog() *TemplateCatalog {
	return NewTemplateCatalogWith(builtinBuckets(), defaultBucket())
}

// NewTemplateCatalogWith creates a catalog from explicit buckets. fallback
// is used when no bucket matches.
func NewTemplateCatalogWith(buckets []TopicBucket, fallback TopicBucket) *TemplateCatalog {
	return &TemplateCatalog{buckets: buckets, fallback: fallback}
}

// Lookup returns the first bucket matching topic, or the fallback
func (c *TemplateCatalog) Lookup(topic string) TopicBucket {
	lower := strings.ToLower(topic)
	for _, b := range c.buckets {
		if b.Matches(lower) {
			return b
		}
	}
	return c.fallback
}

// Buckets returns every bucket in precedence order, fallback last
func (c *TemplateCatalog) Buckets() []TopicBucket {
	out := make([]TopicBucket, 0, len(c.buckets)+1)
	out = append(out, c.buckets...)
	return append(out, c.fallback)
}

func builtinBuckets() []TopicBucket {
	return []TopicBucket{
		{
			Name:     "technology",
			Keywords: []string{"ai", "artificial intelligence", "machine learning", "technology"},
			Templates: []entities.SlideTemplate{
				{
					Title: "Introduction to {{topic}}",
					Bullets: []string{
						"Definition and core concepts",
						"Historical development and evolution",
						"Current state of the technology",
						"Key applications and use cases",
					},
					Notes: "This slide introduces the fundamental concepts of {{topic}}.",
				},
				{
					Title: "Key Technologies and Tools",
					Bullets: []string{
						"Primary frameworks and platforms",
						"Essential tools and libraries",
						"Development environments",
						"Integration capabilities",
					},
					Notes: "Overview of the technological ecosystem around {{topic}}.",
				},
				{
					Title: "Benefits and Advantages",
					Bullets: []string{
						"Improved efficiency and productivity",
						"Cost reduction opportunities",
						"Enhanced accuracy and reliability",
						"Scalability and flexibility",
					},
					Notes: "This slide highlights the positive impacts of {{topic}}.",
				},
				{
					Title: "Challenges and Limitations",
					Bullets: []string{
						"Technical complexities and requirements",
						"Resource and infrastructure needs",
						"Ethical considerations",
						"Implementation barriers",
					},
					Notes: "Discussion of challenges faced in {{topic}}.",
				},
				{
					Title: "Future Trends",
					Bullets: []string{
						"Emerging technologies and innovations",
						"Predicted market growth",
						"Research and development directions",
						"Potential breakthrough applications",
					},
					Notes: "Looking ahead at the future of {{topic}}.",
				},
			},
		},
		{
			Name:     "business",
			Keywords: []string{"business", "marketing", "sales", "strategy"},
			Templates: []entities.SlideTemplate{
				{
					Title: "{{topic}} Overview",
					Bullets: []string{
						"Market landscape and opportunities",
						"Target audience identification",
						"Competitive analysis",
						"Value proposition",
					},
					Notes: "Overview of the business context for {{topic}}.",
				},
				{
					Title: "Strategic Approach",
					Bullets: []string{
						"Core objectives and goals",
						"Implementation methodology",
						"Key performance indicators",
						"Resource allocation",
					},
					Notes: "Strategic framework for {{topic}}.",
				},
				{
					Title: "Best Practices",
					Bullets: []string{
						"Industry-proven techniques",
						"Success factors and criteria",
						"Common pitfalls to avoid",
						"Optimization strategies",
					},
					Notes: "Practical guidance for implementing {{topic}}.",
				},
			},
		},
		{
			Name:     "environment",
			Keywords: []string{"environment", "climate", "energy", "renewable", "sustainability"},
			Templates: []entities.SlideTemplate{
				{
					Title: "Understanding {{topic}}",
					Bullets: []string{
						"Scientific background and principles",
						"Current global situation",
						"Impact on ecosystems",
						"Importance for future generations",
					},
					Notes: "Foundational knowledge about {{topic}}.",
				},
				{
					Title: "Key Solutions and Innovations",
					Bullets: []string{
						"Technological advancements",
						"Policy and regulatory frameworks",
						"Community-based initiatives",
						"International cooperation efforts",
					},
					Notes: "Exploring solutions related to {{topic}}.",
				},
				{
					Title: "Taking Action",
					Bullets: []string{
						"Individual responsibility and actions",
						"Corporate sustainability practices",
						"Government policies and programs",
						"Measurable outcomes and goals",
					},
					Notes: "Practical steps for addressing {{topic}}.",
				},
			},
		},
		{
			Name:     "education",
			Keywords: []string{"education", "learning", "teaching", "training"},
			Templates: []entities.SlideTemplate{
				{
					Title: "{{topic}} Fundamentals",
					Bullets: []string{
						"Core principles and theories",
						"Learning objectives",
						"Pedagogical approaches",
						"Assessment methods",
					},
					Notes: "Introduction to {{topic}} concepts.",
				},
				{
					Title: "Modern Methodologies",
					Bullets: []string{
						"Interactive learning techniques",
						"Technology integration",
						"Personalized learning paths",
						"Collaborative approaches",
					},
					Notes: "Contemporary methods in {{topic}}.",
				},
				{
					Title: "Measuring Success",
					Bullets: []string{
						"Performance metrics",
						"Feedback mechanisms",
						"Continuous improvement",
						"Long-term outcomes",
					},
					Notes: "Evaluating effectiveness of {{topic}}.",
				},
			},
		},
		{
			Name:     "health",
			Keywords: []string{"health", "fitness", "wellness", "nutrition"},
			Templates: []entities.SlideTemplate{
				{
					Title: "{{topic}} Basics",
					Bullets: []string{
						"Essential principles",
						"Health benefits",
						"Scientific foundations",
						"Common misconceptions",
					},
					Notes: "Fundamental concepts of {{topic}}.",
				},
				{
					Title: "Practical Guidelines",
					Bullets: []string{
						"Daily recommendations",
						"Best practices",
						"Safety considerations",
						"Personalization strategies",
					},
					Notes: "Actionable advice for {{topic}}.",
				},
				{
					Title: "Long-term Wellness",
					Bullets: []string{
						"Sustainable habits",
						"Progress tracking",
						"Overcoming challenges",
						"Lifestyle integration",
					},
					Notes: "Building lasting results with {{topic}}.",
				},
			},
		},
	}
}

func defaultBucket() TopicBucket {
	return TopicBucket{
		Name: "default",
		Templates: []entities.SlideTemplate{
			{
				Title: "Introduction to {{topic}}",
				Bullets: []string{
					"Background and context",
					"Why this topic matters",
					"Key concepts and definitions",
					"Scope of this presentation",
				},
				Notes: "Introductory slide about {{topic}}.",
			},
			{
				Title: "Main Points",
				Bullets: []string{
					"First major point about {{topic}}",
					"Second important aspect",
					"Third key consideration",
					"Supporting details and evidence",
				},
				Notes: "Core content related to {{topic}}.",
			},
			{
				Title: "Analysis and Insights",
				Bullets: []string{
					"Critical analysis of {{topic}}",
					"Data and research findings",
					"Expert perspectives",
					"Practical implications",
				},
				Notes: "Deeper dive into {{topic}}.",
			},
			{
				Title: "Applications",
				Bullets: []string{
					"Real-world applications",
					"Case studies and examples",
					"Industry implementations",
					"Success stories",
				},
				Notes: "Practical applications of {{topic}}.",
			},
			{
				Title: "Recommendations",
				Bullets: []string{
					"Best practices for {{topic}}",
					"Action items and next steps",
					"Resources for further learning",
					"Common pitfalls to avoid",
				},
				Notes: "Actionable recommendations for {{topic}}.",
			},
		},
	}
}
