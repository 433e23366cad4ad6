package remote

import "fmt"

const (
	// PromptVersion identifies the classification template. Any edit to the
	// template text shifts the verdict distribution and must bump it.
	PromptVersion = "v1"

	// DefaultPromptMaxChars is how much of the input text is embedded in the prompt.
	DefaultPromptMaxChars = 500

	// probePrompt is sent by Probe; it never takes part in classification.
	probePrompt = "Hello, this is a test message. Please respond with 'Test successful' if you can see this."

	classificationTemplate = `Analyze the following text and determine if it was likely generated by AI. Be STRICT and consider these factors:

STRONG AI INDICATORS (mark as AI if ANY are present):
- Excessive emojis (more than 2-3 per sentence)
- Overly perfect grammar and punctuation
- Corporate buzzwords and jargon (synergy, leverage, optimize, etc.)
- Generic motivational language
- Repetitive sentence structures
- Lack of personal details or anecdotes
- Overly formal business language
- Perfect hashtag formatting
- Marketing-style language
- Unnatural enthusiasm or positivity

HUMAN INDICATORS (mark as HUMAN only if clearly natural):
- Personal stories or experiences
- Casual, conversational tone
- Imperfect grammar or typos
- Natural emoji usage (1-2 per post)
- Specific details about work/projects
- Authentic emotions and reactions
- Varied sentence lengths
- Real names or specific company details

Text: "%s..."

Be STRICT - if there's ANY doubt, mark as AI. Respond with only "AI" if AI-generated, or "HUMAN" if clearly human-written.`
)

// BuildPrompt embeds the first maxChars characters of text in the fixed
// classification template. The ellipsis is always appended.
func BuildPrompt(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultPromptMaxChars
	}
	return fmt.Sprintf(classificationTemplate, truncateRunes(text, maxChars))
}

// truncateRunes cuts at maxLen runes, not UTF-16 code units.
func truncateRunes(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
