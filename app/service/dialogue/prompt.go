package dialogue

import (
	"fmt"
	"strings"

	"vregbot/app/service/retrieval"

	_ "embed"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

func buildSystemPrompt(userName string) string {
	nameContext := ""
	if userName != "" {
		nameContext = fmt.Sprintf(
			"The user's name is %s. Use their name naturally in your responses when appropriate.",
			userName)
	}

	templateValues := map[string]any{
		"name_context": nameContext,
	}

	prompt := systemPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	return prompt
}

// buildContextBlock renders retrieved Q/A pairs as a numbered grounding
// block. Empty when nothing was retrieved.
func buildContextBlock(results []retrieval.Result) string {
	if len(results) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString("Here are some relevant FAQs from the VREG knowledge base:\n\n")

	for i, result := range results {
		builder.WriteString(fmt.Sprintf("%d. Q: %s\n   A: %s\n\n", i+1, result.Question, result.Answer))
	}

	return builder.String()
}

func buildUserPrompt(contextBlock, message string) string {
	if contextBlock == "" {
		return fmt.Sprintf("User Question: %s\n\nPlease provide a helpful response about VREG processes.", message)
	}

	return fmt.Sprintf(
		"%s\n\nUser Question: %s\n\nPlease provide a helpful response based on the FAQ context above and your knowledge of VREG processes.",
		contextBlock, message)
}
