package interaction

import (
	"fmt"
	"strings"
)

const (
	systemPrompt = "You are a knowledgeable pharmacist assistant."

	// maxTokens caps the generated answer length.
	maxTokens = 1000
)

// BuildPrompt composes the user message sent to the model.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given the health history: %s, provide a detailed explanation of the potential risks and interactions among these medications: %s.\n", req.HealthHistory, req.Medications)
	b.WriteString("Focus on any increased risks, specific side effects, and the mechanism by which these interactions might occur, also considering the health history.\n")
	b.WriteString("Include any relevant studies or findings that have implicated these drugs in such conditions.\n")
	b.WriteString("Ensure the explanation is comprehensive, covering the pharmacological aspects and clinical implications for patients.\n")
	fmt.Fprintf(&b, "Then, based on gender: %s, age: %s, weight: %s, height: %s, and health history: %s, offer tailored advice.\n",
		req.Gender, req.Age, req.Weight, req.Height, req.HealthHistory)
	b.WriteString("Classify the overall interaction risk as either SEVERE, MODERATE, or MILD.\n")
	b.WriteString("If the interaction risk is SEVERE, suggest alternative medications that could be considered.\n")
	b.WriteString("Format your response as follows:\n")
	b.WriteString("Risk Level: [SEVERE/MODERATE/MILD]\n")
	b.WriteString("Explanation: [Your detailed explanation]\n")
	b.WriteString("Tailored Advice: [Your advice]\n")
	b.WriteString("Alternative Medications (if SEVERE): [Your suggestions]\n")
	return b.String()
}
