package translation

import (
	"fmt"
	"strings"

	"github.com/erp/website/internal/domain/translation"
)

const systemPrompt = `You are a senior translation reviewer for business software documentation.
You assess translations for accuracy, fluency, terminology and style.
Answer with a single JSON object and nothing else. Do not wrap it in markdown.`

const scoreInstructions = `Rate the translation below from 0 to 100.
Return JSON of the form:
{"score": <integer 0-100>, "issues": ["<short description of each problem>"]}
Return an empty issues list when the translation has no problems.`

const analyzeInstructions = `Analyse the translation below in detail.
Return JSON of the form:
{
  "overall_score": <integer 0-100>,
  "accuracy": <integer 0-100>,
  "fluency": <integer 0-100>,
  "terminology": <integer 0-100>,
  "style": <integer 0-100>,
  "summary": "<two or three sentences>",
  "suggestions": [{"original": "<fragment>", "suggestion": "<replacement>", "reason": "<why>"}]
}
Suggest at most ten changes, most important first.`

func buildPrompt(instructions string, req *translation.Request) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Source language: %s\n", languageLabel(req.SourceLanguage))
	fmt.Fprintf(&b, "Target language: %s\n", req.TargetLanguage)
	if req.Domain != "" {
		fmt.Fprintf(&b, "Subject domain: %s\n", req.Domain)
	}
	b.WriteString("\n<source>\n")
	b.WriteString(req.SourceText)
	b.WriteString("\n</source>\n\n<translation>\n")
	b.WriteString(req.Translation)
	b.WriteString("\n</translation>\n")
	return b.String()
}

func languageLabel(code string) string {
	if code == translation.AutoDetect {
		return "detect from the text"
	}
	return code
}
