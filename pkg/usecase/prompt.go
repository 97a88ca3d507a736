package usecase

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
)

var (
	//go:embed prompt/identification_system.md
	identificationSystemPrompt string

	//go:embed prompt/identification.md
	identificationPromptTmpl string

	//go:embed prompt/evaluation_system.md
	evaluationSystemPrompt string

	//go:embed prompt/evaluation_severity.md
	severityPromptTmpl string

	//go:embed prompt/evaluation_frequency.md
	frequencyPromptTmpl string

	//go:embed prompt/evaluation_avoidability.md
	avoidabilityPromptTmpl string

	//go:embed prompt/countermeasure_system.md
	countermeasureSystemPrompt string

	//go:embed prompt/countermeasure.md
	countermeasurePromptTmpl string

	//go:embed prompt/meta_system.md
	metaSystemPrompt string

	//go:embed prompt/meta.md
	metaPromptTmpl string
)

var (
	identificationPrompt = template.Must(template.New("identification").Parse(identificationPromptTmpl))
	severityPrompt       = template.Must(template.New("evaluation_severity").Parse(severityPromptTmpl))
	frequencyPrompt      = template.Must(template.New("evaluation_frequency").Parse(frequencyPromptTmpl))
	avoidabilityPrompt   = template.Must(template.New("evaluation_avoidability").Parse(avoidabilityPromptTmpl))
	countermeasurePrompt = template.Must(template.New("countermeasure").Parse(countermeasurePromptTmpl))
	metaPrompt           = template.Must(template.New("meta").Parse(metaPromptTmpl))
)

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render prompt", goerr.V("template", tmpl.Name()))
	}
	return buf.String(), nil
}
