package detection

import (
	"strings"
	"unicode/utf8"
)

// MinTextLength is the trimmed length a unit must exceed before it is classified.
const MinTextLength = 20

// Verdict is the classification outcome for a text unit.
type Verdict string

const (
	AIGenerated  Verdict = "ai_generated"
	HumanWritten Verdict = "human_written"
	Undetermined Verdict = "undetermined"
)

// IsAI reports whether v is AIGenerated.
func (v Verdict) IsAI() bool { return v == AIGenerated }

// Decisive reports whether v is one of the two binary outcomes.
func (v Verdict) Decisive() bool { return v == AIGenerated || v == HumanWritten }

// FromBool maps the remote stage's boolean onto a binary verdict.
func FromBool(isAI bool) Verdict {
	if isAI {
		return AIGenerated
	}
	return HumanWritten
}

// TextUnit is the plain text extracted from one post or comment.
type TextUnit struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// Trimmed returns the unit's text without surrounding whitespace.
func (u TextUnit) Trimmed() string { return strings.TrimSpace(u.Text) }

// Qualifies reports whether the unit is long enough to classify. Length is
// counted in runes, so text with emoji or other astral characters measures
// shorter than a UTF-16 code unit count would.
func (u TextUnit) Qualifies(minLength int) bool {
	if minLength <= 0 {
		minLength = MinTextLength
	}
	return utf8.RuneCountInString(u.Trimmed()) > minLength
}

// Treatment describes how the presentation layer should render a verdict.
type Treatment struct {
	Blur         bool   `json:"blur"`
	Label        string `json:"label"`
	Flag         string `json:"flag"`
	RevealToggle bool   `json:"reveal_toggle"`
}

const (
	LabelAIGenerated  = "AI Generated Content"
	LabelHumanWritten = "Human Written"
)

// TreatmentFor picks the presentation for a binary verdict.
// Anything that is not AIGenerated is rendered as human.
func TreatmentFor(v Verdict) Treatment {
	if v.IsAI() {
		return Treatment{
			Blur:         true,
			Label:        LabelAIGenerated,
			Flag:         "ai-generated",
			RevealToggle: true,
		}
	}
	return Treatment{
		Label: LabelHumanWritten,
		Flag:  "human-written",
	}
}
