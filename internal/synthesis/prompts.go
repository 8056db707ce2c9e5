// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/company-research/pkg/types"
)

// websitePromptTmpl asks for an organization's official URL as a bare
// string.
var websitePromptTmpl = template.Must(template.New("website").Parse(
	`Please provide the official website URL for {{.Organization}}. Only respond with the URL, nothing else.`))

// correctionPromptTmpl asks for a corrected input value during dispatcher
// self-correction. The corrected value is internal bookkeeping; it is never
// shown to the end user.
var correctionPromptTmpl = template.Must(template.New("correction").Parse(
	`A lookup using the {{.Field}} value {{printf "%q" .Previous}} failed.
{{.Hint}}

Respond with only the corrected {{.Field}} value, nothing else.`))

// reportPromptTmpl is the synthesis prompt producing the final structured
// report. It instructs the model to respond with a single JSON object
// matching the report schema.
var reportPromptTmpl = template.Must(template.New("report").Parse(
	`You are an expert company research analyst. Using the gathered source material below, create a comprehensive overview of the organization. Structure the information clearly and concisely, identify key aspects like products, competitors, and funding, and generate relevant follow-up and interview questions. Maintain objectivity; do not invent facts the sources do not support.

Organization: {{.Organization}}
Additional context: {{if .Context}}{{.Context}}{{else}}None{{end}}

Gathered source material:
{{.Sources}}

Respond with a single JSON object containing exactly these keys:
- "website": the organization's main website URL (string)
- "directory": the organization's directory profile URL (string)
- "summary": concise summary of the organization (string)
- "purpose": the organization's main purpose and mission (string)
- "products": key products and services (array of strings)
- "competitors": main competitors (array of strings)
- "funding_info": funding attributes such as round and amount (object of strings, may be empty)
- "news": recent news articles, each {"title", "url", "date", "source"} (array, may be empty)
- "videos": relevant videos, each {"title", "url", "date", "source"} (array, may be empty)
- "follow_up_questions": recommended follow-up questions (array of strings)
- "interview_questions": recommended interview questions (array of strings)

Do not include any text outside the JSON object.`))

// renderSources flattens source results into a prompt section. Only
// successful results are rendered; error details and retry bookkeeping
// stay out of the prompt.
func renderSources(results []types.SourceResult) string {
	var b strings.Builder
	for _, r := range results {
		if !r.OK() {
			continue
		}
		fmt.Fprintf(&b, "--- source: %s", r.Source)
		if r.URL != "" {
			fmt.Fprintf(&b, " (%s)", r.URL)
		}
		b.WriteString(" ---\n")
		if r.Content != "" {
			b.WriteString(r.Content)
			b.WriteByte('\n')
		}
		for k, v := range r.Fields {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	if b.Len() == 0 {
		return "(no source material gathered)"
	}
	return b.String()
}

func renderWebsitePrompt(orgName string) (string, error) {
	var buf bytes.Buffer
	err := websitePromptTmpl.Execute(&buf, struct{ Organization string }{orgName})
	return buf.String(), err
}

func renderCorrectionPrompt(field, previous, hint string) (string, error) {
	var buf bytes.Buffer
	err := correctionPromptTmpl.Execute(&buf, struct{ Field, Previous, Hint string }{field, previous, hint})
	return buf.String(), err
}

func renderReportPrompt(req types.ResearchRequest, results []types.SourceResult) (string, error) {
	var buf bytes.Buffer
	err := reportPromptTmpl.Execute(&buf, struct {
		Organization string
		Context      string
		Sources      string
	}{req.OrganizationName, req.AdditionalContext, renderSources(results)})
	return buf.String(), err
}
