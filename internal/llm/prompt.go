package llm

import (
	"embed"
	"fmt"
	"strings"

	"github.com/tyler-sommer/stick"
)

//go:embed prompts/user.twig
var promptFS embed.FS

// SystemPrompt instructs the model to answer with a single "fields" object.
const SystemPrompt = `
You extract structured data from insurance photo reports to fill a DOCX template.

Return JSON:
{
  "fields": {
     "<template_placeholder>": "<value>",
     ...
  }
}

If a value is missing, return "".
Only return valid JSON. No explanation text.
`

// Prompt renders the user message. Texts are inserted verbatim.
type Prompt struct {
	env  *stick.Env
	user string
}

// NewPrompt loads the embedded user message template.
func NewPrompt() (*Prompt, error) {
	b, err := promptFS.ReadFile("prompts/user.twig")
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return &Prompt{env: stick.New(nil), user: string(b)}, nil
}

// User renders the template and report texts into the user message.
func (p *Prompt) User(templateText, reportText string) (string, error) {
	vars := map[string]stick.Value{
		"template_text": templateText,
		"report_text":   reportText,
	}
	var out strings.Builder
	if err := p.env.Execute(p.user, &out, vars); err != nil {
		return "", fmt.Errorf("render user prompt: %w", err)
	}
	return out.String(), nil
}
