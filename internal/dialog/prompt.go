// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dialog

import (
	"bytes"
	"text/template"
)

// analysisSystem is the system instruction for the parameter-extraction call.
const analysisSystem = "You are a helpful assistant that helps users search for academic papers. Always respond in valid JSON format."

// analysisPromptTmpl asks the model to judge whether the conversation
// contains enough information to search, and either to extract structured
// parameters or to pose a clarifying question.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`You are an academic paper search assistant. From the conversation so far, extract the information needed to run a literature search. If anything essential is missing, ask for it.

Conversation history:
{{.History}}

Latest user message:
{{.Utterance}}

Respond with a single JSON object of this shape:
{
    "sufficient": true/false,
    "extracted_query": "search query (extracted keywords)",
    "year_filter": "publication year filter (e.g. >=2020, 2020-2023; empty string if none given)",
    "max_results": "number of results to fetch (default: 25)",
    "question": "question to ask the user when sufficient is false"
}

Example when the information is sufficient:
{
    "sufficient": true,
    "extracted_query": "transformer neural network attention mechanism",
    "year_filter": ">=2020",
    "max_results": "50",
    "question": ""
}

Example when information is missing:
{
    "sufficient": false,
    "extracted_query": "",
    "year_filter": "",
    "max_results": "25",
    "question": "What research field or topic are you interested in? A few keywords or a short description will help."
}

Respond in JSON format only:`))

// keywordsPromptTmpl asks the model to reduce a long free-text query to a
// compact keyword set for catalog search.
var keywordsPromptTmpl = template.Must(template.New("keywords").Parse(`You are an academic paper search expert. Extract the {{.MaxKeywords}} keywords from the text below that are most useful for a literature search.

Requirements:
- Prefer academic concepts, technical terms, and research field names
- Exclude overly common words ("the", "is", and so on)
- Keep compound terms intact (e.g. "neural network")
- Output a JSON object (e.g. {"keywords": ["keyword1", "keyword2"]})

Text:
{{.Text}}

Output the keywords in JSON format:`))

// renderTemplate executes tmpl with data and returns the result.
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
