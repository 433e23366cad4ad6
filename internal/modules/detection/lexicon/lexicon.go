// Package lexicon holds the PatternBank: the word lists, phrase lists and
// regular expressions the heuristic classifier evaluates. Banks are plain YAML
// data so that alternative lexicons can be swapped in without code changes.
package lexicon

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yml
var profiles embed.FS

const (
	DefaultProfile = "default"

	defaultEmojiMax        = 4
	defaultBuzzwordsMin    = 2
	defaultHashtagsMin     = 3
	defaultMotivationalMin = 2
)

var ErrUnknownProfile = errors.New("unknown lexicon profile")

// Thresholds are the trigger points of the AI-indicator checks.
// EmojiMax is exclusive (the check fires above it); the others are inclusive.
type Thresholds struct {
	EmojiMax        int `yaml:"emoji_max" json:"emoji_max"`
	BuzzwordsMin    int `yaml:"buzzwords_min" json:"buzzwords_min"`
	HashtagsMin     int `yaml:"hashtags_min" json:"hashtags_min"`
	MotivationalMin int `yaml:"motivational_min" json:"motivational_min"`
}

type rawBank struct {
	Name                string     `yaml:"name"`
	Version             int        `yaml:"version"`
	Thresholds          Thresholds `yaml:"thresholds"`
	Emoji               string     `yaml:"emoji"`
	Hashtag             string     `yaml:"hashtag"`
	Buzzwords           []string   `yaml:"buzzwords"`
	MotivationalPhrases []string   `yaml:"motivational_phrases"`
	PersonalDetails     []string   `yaml:"personal_details"`
	ImperfectGrammar    []string   `yaml:"imperfect_grammar"`
	CasualWords         []string   `yaml:"casual_words"`
}

// Bank is an immutable, compiled PatternBank. It is safe for concurrent use.
type Bank struct {
	name       string
	version    int
	thresholds Thresholds

	emoji   *regexp.Regexp
	hashtag *regexp.Regexp

	buzzwords    []string
	motivational []string
	casual       []string

	personal []*regexp.Regexp
	grammar  []*regexp.Regexp
}

// Summary is a read-only description of a bank, used by diagnostics.
type Summary struct {
	Name                string     `json:"name"`
	Version             int        `json:"version"`
	Thresholds          Thresholds `json:"thresholds"`
	Buzzwords           int        `json:"buzzwords"`
	MotivationalPhrases int        `json:"motivational_phrases"`
	PersonalDetails     int        `json:"personal_details"`
	ImperfectGrammar    int        `json:"imperfect_grammar"`
	CasualWords         int        `json:"casual_words"`
}

var (
	defaultOnce sync.Once
	defaultBank *Bank
)

// Default returns the embedded default bank. It panics if the embedded data is
// broken, which can only happen at development time.
func Default() *Bank {
	defaultOnce.Do(func() {
		b, err := Load(DefaultProfile)
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded default profile: %v", err))
		}
		defaultBank = b
	})
	return defaultBank
}

// Profiles lists the embedded profile names.
func Profiles() []string {
	entries, err := profiles.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves ref as an embedded profile name or, failing that, as a path to
// a YAML file. An empty ref loads the default profile.
func Load(ref string) (*Bank, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DefaultProfile
	}

	if !strings.ContainsAny(ref, `/\`) && filepath.Ext(ref) == "" {
		data, err := profiles.ReadFile("profiles/" + ref + ".yml")
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, ref)
		}
		return Parse(data)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file %q: %w", ref, err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon file %q: %w", ref, err)
	}
	return b, nil
}

// Parse compiles a bank from YAML data.
func Parse(data []byte) (*Bank, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	raw := rawBank{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return compile(raw)
}

func compile(raw rawBank) (*Bank, error) {
	b := &Bank{
		name:         strings.TrimSpace(raw.Name),
		version:      raw.Version,
		thresholds:   normalizeThresholds(raw.Thresholds),
		buzzwords:    normalizeEntries(raw.Buzzwords),
		motivational: normalizeEntries(raw.MotivationalPhrases),
		casual:       normalizeEntries(raw.CasualWords),
	}
	if b.name == "" {
		b.name = "custom"
	}

	var err error
	if strings.TrimSpace(raw.Emoji) == "" {
		return nil, errors.New("emoji pattern is required")
	}
	if b.emoji, err = regexp.Compile(raw.Emoji); err != nil {
		return nil, fmt.Errorf("emoji pattern: %w", err)
	}
	if strings.TrimSpace(raw.Hashtag) == "" {
		return nil, errors.New("hashtag pattern is required")
	}
	if b.hashtag, err = regexp.Compile(raw.Hashtag); err != nil {
		return nil, fmt.Errorf("hashtag pattern: %w", err)
	}
	if b.personal, err = compileAll("personal_details", raw.PersonalDetails); err != nil {
		return nil, err
	}
	if b.grammar, err = compileAll("imperfect_grammar", raw.ImperfectGrammar); err != nil {
		return nil, err
	}
	return b, nil
}

func compileAll(section string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// normalizeEntries lower-cases entries and drops blanks and duplicates so that
// each distinct entry is counted once against lower-cased text.
func normalizeEntries(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func normalizeThresholds(t Thresholds) Thresholds {
	if t.EmojiMax <= 0 {
		t.EmojiMax = defaultEmojiMax
	}
	if t.BuzzwordsMin <= 0 {
		t.BuzzwordsMin = defaultBuzzwordsMin
	}
	if t.HashtagsMin <= 0 {
		t.HashtagsMin = defaultHashtagsMin
	}
	if t.MotivationalMin <= 0 {
		t.MotivationalMin = defaultMotivationalMin
	}
	return t
}

func (b *Bank) Name() string           { return b.name }
func (b *Bank) Version() int           { return b.version }
func (b *Bank) Thresholds() Thresholds { return b.thresholds }

// EmojiCount counts emoji code points in text.
func (b *Bank) EmojiCount(text string) int {
	return len(b.emoji.FindAllStringIndex(text, -1))
}

// HashtagCount counts perfectly capitalised hashtags in text.
func (b *Bank) HashtagCount(text string) int {
	return len(b.hashtag.FindAllStringIndex(text, -1))
}

// BuzzwordCount counts distinct buzzword entries contained in lower.
// lower must already be lower-cased.
func (b *Bank) BuzzwordCount(lower string) int {
	return countContained(b.buzzwords, lower)
}

// MotivationalCount counts distinct motivational phrases contained in lower.
func (b *Bank) MotivationalCount(lower string) int {
	return countContained(b.motivational, lower)
}

// HasPersonalDetail reports whether any personal-detail pattern matches text.
func (b *Bank) HasPersonalDetail(text string) bool {
	return anyMatch(b.personal, text)
}

// HasImperfectGrammar reports whether any informal-grammar pattern matches text.
func (b *Bank) HasImperfectGrammar(text string) bool {
	return anyMatch(b.grammar, text)
}

// HasCasualWord reports whether lower contains any casual vocabulary entry.
func (b *Bank) HasCasualWord(lower string) bool {
	for _, w := range b.casual {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Summary describes the bank without exposing its internals.
func (b *Bank) Summary() Summary {
	return Summary{
		Name:                b.name,
		Version:             b.version,
		Thresholds:          b.thresholds,
		Buzzwords:           len(b.buzzwords),
		MotivationalPhrases: len(b.motivational),
		PersonalDetails:     len(b.personal),
		ImperfectGrammar:    len(b.grammar),
		CasualWords:         len(b.casual),
	}
}

func countContained(entries []string, lower string) int {
	n := 0
	for _, e := range entries {
		if strings.Contains(lower, e) {
			n++
		}
	}
	return n
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
