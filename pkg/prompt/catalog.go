package prompt

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"requirements-assistant-be/pkg/language"
)

//go:embed messages.yaml
var embeddedMessages []byte

// Messages holds the fixed texts of one language.
type Messages struct {
	NoQuestionsGenerated  string            `yaml:"no_questions_generated"`
	RequirementsGenerated string            `yaml:"requirements_generated"`
	AnalysisCompleted     string            `yaml:"analysis_completed"`
	NoAnalysisQuestions   string            `yaml:"no_analysis_questions"`
	RequirementsAdded     string            `yaml:"requirements_added"`
	NoDescription         string            `yaml:"no_description"`
	NoRequirements        string            `yaml:"no_requirements"`
	EmptyCategory         string            `yaml:"empty_category"`
	NoHistory             string            `yaml:"no_history"`
	HistoryUser           string            `yaml:"history_user"`
	HistoryAI             string            `yaml:"history_ai"`
	Categories            map[string]string `yaml:"categories"`
}

// CategoryLabel returns the display label of category, or category itself.
func (m Messages) CategoryLabel(category string) string {
	if label, ok := m.Categories[category]; ok && label != "" {
		return label
	}
	return category
}

// RequirementsAddedFor fills the add-requirements confirmation for category.
func (m Messages) RequirementsAddedFor(category string) (string, error) {
	return Substitute("requirements_added", m.RequirementsAdded, map[string]string{
		"category": m.CategoryLabel(category),
	})
}

// Catalog picks Spanish texts for "es*" languages and English for the rest.
type Catalog struct {
	Spanish Messages `yaml:"es"`
	English Messages `yaml:"en"`
}

func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(embeddedMessages)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}
	return &c, nil
}

func (c *Catalog) For(lang string) Messages {
	if language.IsSpanish(lang) {
		return c.Spanish
	}
	return c.English
}
