// Package prompt loads prompt templates and fills their {placeholder} markers.
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Template names known to the conversation flow.
const (
	ProjectQuestions      = "project_questions"
	GenerateNewRequisites = "generate_new_requisites"
	ImproveRequisites     = "improve_requisites"
	AnalyzeRequisites     = "analyze_requisites"
	AddRequisites         = "add_requisites"
	StallChat             = "stall_chat"
)

//go:embed templates/*.txt
var embeddedTemplates embed.FS

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// TemplateError reports a missing template or an unfilled placeholder.
type TemplateError struct {
	Template    string
	Placeholder string
	Err         error
}

func (e *TemplateError) Error() string {
	if e.Placeholder != "" {
		return fmt.Sprintf("template %q: missing value for placeholder {%s}", e.Template, e.Placeholder)
	}
	return fmt.Sprintf("template %q: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

type Renderer struct {
	overrideDir string
}

// NewRenderer serves the embedded templates. When overrideDir is set, a
// <name>.txt file found there takes precedence over the embedded one.
func NewRenderer(overrideDir string) *Renderer {
	return &Renderer{overrideDir: overrideDir}
}

// Render loads template name and substitutes every placeholder from values.
func (r *Renderer) Render(name string, values map[string]string) (string, error) {
	text, err := r.load(name)
	if err != nil {
		return "", &TemplateError{Template: name, Err: err}
	}
	return Substitute(name, text, values)
}

func (r *Renderer) load(name string) (string, error) {
	file := name + ".txt"
	if r.overrideDir != "" {
		data, err := os.ReadFile(filepath.Join(r.overrideDir, file))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	data, err := embeddedTemplates.ReadFile("templates/" + file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Substitute replaces {key} markers in text in a single pass, so braces inside
// the supplied values are never expanded.
func Substitute(name, text string, values map[string]string) (string, error) {
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if _, ok := values[m[1]]; !ok {
			return "", &TemplateError{Template: name, Placeholder: m[1]}
		}
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(marker string) string {
		return values[marker[1:len(marker)-1]]
	}), nil
}

// WithLanguageDirective prefixes a rendered prompt with the answer-language instruction.
func WithLanguageDirective(lang, prompt string) string {
	return "Responde SIEMPRE en " + lang + ".\n\n" + prompt
}

// ExampleBlock wraps the user's style samples for inclusion in a prompt.
// Blank samples are dropped; no samples yields an empty string.
func ExampleBlock(samples []string) string {
	kept := make([]string, 0, len(samples))
	for _, s := range samples {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "\nEJEMPLO DE ESTILO:\n\"\"\"\n" + strings.Join(kept, "\n") + "\n\"\"\"\n"
}
