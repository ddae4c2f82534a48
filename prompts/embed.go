// Package prompts holds the embedded prompt templates that ground guide
// conversations: the per-subject system instruction and the synthesized
// greeting that opens every conversation.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/virtualgoa/guidechat/catalog"
)

// Version is incremented whenever the default prompts change incompatibly.
const Version = "v1"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// SystemInstruction renders the behavioral directives plus the subject's
// grounding context.
func SystemInstruction(s catalog.Subject) (string, error) {
	return render("system_instruction.tmpl", s)
}

// Greeting renders the assistant message that seeds a new conversation.
// Its text always starts with the subject's name preceded by "Welcome to".
func Greeting(s catalog.Subject) (string, error) {
	return render("greeting.tmpl", s)
}

func render(name string, s catalog.Subject) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, s); err != nil {
		return "", fmt.Errorf("prompts: render %s: %w", name, err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
