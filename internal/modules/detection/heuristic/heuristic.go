// Package heuristic is the local, rule-based stage of the detector. It resolves
// unambiguous text without any network access.
//
// Checks run in a fixed order and the first one that fires decides the
// verdict. AI indicators are always evaluated before human indicators, so
// reordering the rules changes outcomes on text that matches several groups.
package heuristic

import (
	"strings"

	"github.com/mx-space/feedguard/internal/modules/detection"
	"github.com/mx-space/feedguard/internal/modules/detection/lexicon"
)

// Rule names the check that decided a verdict.
type Rule string

const (
	RuleNone             Rule = ""
	RuleEmoji            Rule = "excessive_emoji"
	RuleBuzzwords        Rule = "buzzwords"
	RuleHashtags         Rule = "perfect_hashtags"
	RuleMotivational     Rule = "motivational_language"
	RulePersonalDetails  Rule = "personal_details"
	RuleImperfectGrammar Rule = "imperfect_grammar"
	RuleCasualLanguage   Rule = "casual_language"
)

// Result is a heuristic verdict with the rule that produced it.
type Result struct {
	Verdict detection.Verdict `json:"verdict"`
	Rule    Rule              `json:"rule,omitempty"`
}

// Classifier evaluates a PatternBank against text.
type Classifier struct {
	bank *lexicon.Bank
}

// New returns a classifier over bank. A nil bank selects the default profile.
func New(bank *lexicon.Bank) *Classifier {
	if bank == nil {
		bank = lexicon.Default()
	}
	return &Classifier{bank: bank}
}

// Bank returns the pattern bank the classifier reads.
func (c *Classifier) Bank() *lexicon.Bank { return c.bank }

// Classify returns AIGenerated, HumanWritten or Undetermined for text.
func (c *Classifier) Classify(text string) detection.Verdict {
	return c.Explain(text).Verdict
}

// Explain runs the same evaluation as Classify and reports the deciding rule.
func (c *Classifier) Explain(text string) Result {
	b := c.bank
	t := b.Thresholds()
	lower := strings.ToLower(text)

	switch {
	case b.EmojiCount(text) > t.EmojiMax:
		return aiResult(RuleEmoji)
	case b.BuzzwordCount(lower) >= t.BuzzwordsMin:
		return aiResult(RuleBuzzwords)
	case b.HashtagCount(text) >= t.HashtagsMin:
		return aiResult(RuleHashtags)
	case b.MotivationalCount(lower) >= t.MotivationalMin:
		return aiResult(RuleMotivational)
	}

	switch {
	case b.HasPersonalDetail(text):
		return humanResult(RulePersonalDetails)
	case b.HasImperfectGrammar(text):
		return humanResult(RuleImperfectGrammar)
	case b.HasCasualWord(lower):
		return humanResult(RuleCasualLanguage)
	}

	return Result{Verdict: detection.Undetermined}
}

func aiResult(r Rule) Result    { return Result{Verdict: detection.AIGenerated, Rule: r} }
func humanResult(r Rule) Result { return Result{Verdict: detection.HumanWritten, Rule: r} }
