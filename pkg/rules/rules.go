// Package rules implements the dictionary rule-line grammar and the rule
// compiler that turns an ordered rule list into index options plus a
// compiled word-index.
//
// Grounded on the reference implementation's Rule/Command types and its
// From<&[Rule]> compile step (_examples/original_source/src/dictionary.rs,
// src/trie.rs), reworked into a plain-struct, plain-error idiom.
package rules

import (
	"strings"

	"github.com/csc-dev/codespell/pkg/wordindex"
)

// Kind identifies which variant of Rule a parsed line produced.
type Kind int

const (
	KindComment Kind = iota
	KindAllow
	KindDisallow
	KindCommand
)

// CommandKind identifies a recognized `csc:` directive.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandCaseSensitive
	CommandCache
)

// Rule is one parsed line of a rules dictionary.
type Rule struct {
	Kind    Kind
	Word    string      // set for KindAllow / KindDisallow
	Command CommandKind // set for KindCommand
	CacheOn bool        // set for KindCommand == CommandCache
}

const commandPrefix = "csc:"

// ParseLine parses a single raw dictionary line into a Rule following the
// grammar: surrounding whitespace is stripped, an inline glob suffix
// (anything from the first '/' on) is dropped, blank lines and
// comment lines (`#...`, `//...`) become Comment rules unless the comment
// carries a `csc:` directive, a leading '!' marks Disallow, a leading '+'
// marks Allow, and anything else is treated as an implicit Allow.
func ParseLine(line string) Rule {
	line = strings.TrimSpace(line)
	if line == "" {
		return Rule{Kind: KindComment}
	}

	// Comment/command detection runs before the inline-glob strip below: a
	// "//" comment's own leading slashes must never be mistaken for that
	// glob-suffix separator.
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		body := strings.TrimPrefix(line, "//")
		body = strings.TrimPrefix(body, "#")
		body = strings.TrimSpace(body)
		if strings.HasPrefix(body, commandPrefix) {
			return parseCommand(strings.TrimSpace(strings.TrimPrefix(body, commandPrefix)))
		}
		return Rule{Kind: KindComment}
	}

	if idx := strings.IndexByte(line, '/'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if line == "" {
		return Rule{Kind: KindComment}
	}

	switch {
	case strings.HasPrefix(line, "!"):
		return Rule{Kind: KindDisallow, Word: strings.TrimPrefix(line, "!")}
	case strings.HasPrefix(line, "+"):
		return Rule{Kind: KindAllow, Word: strings.TrimPrefix(line, "+")}
	default:
		return Rule{Kind: KindAllow, Word: line}
	}
}

func parseCommand(directive string) Rule {
	directive = strings.TrimSpace(directive)
	lower := strings.ToLower(directive)
	switch {
	case lower == "case-sensitive" || lower == "casesensitive":
		return Rule{Kind: KindCommand, Command: CommandCaseSensitive}
	case strings.HasPrefix(lower, "cache"):
		rest := strings.TrimSpace(strings.TrimPrefix(lower, "cache"))
		on := rest != "false" && rest != "off" && rest != "0"
		return Rule{Kind: KindCommand, Command: CommandCache, CacheOn: on}
	default:
		return Rule{Kind: KindComment}
	}
}

// ParseLines parses every line of a dictionary's raw text into Rules, in
// order.
func ParseLines(text string) []Rule {
	lines := strings.Split(text, "\n")
	rules := make([]Rule, 0, len(lines))
	for _, l := range lines {
		rules = append(rules, ParseLine(l))
	}
	return rules
}

// Compile turns an ordered rule list into index options and a compiled
// word-index. Commands apply in order (a later Command overrides an
// earlier one of the same kind); word rules accumulate into the index with
// Disallow always winning over Allow regardless of order, matching
// wordindex's own conflict policy.
func Compile(ruleList []Rule) *wordindex.WordIndex {
	opts := wordindex.Options{Cache: true}
	for _, r := range ruleList {
		if r.Kind != KindCommand {
			continue
		}
		switch r.Command {
		case CommandCaseSensitive:
			opts.CaseSensitive = true
		case CommandCache:
			opts.Cache = r.CacheOn
		}
	}

	wi := wordindex.New(opts)
	for _, r := range ruleList {
		switch r.Kind {
		case KindAllow:
			wi.Allow(r.Word)
		case KindDisallow:
			wi.Disallow(r.Word)
		}
	}
	wi.Freeze()
	return wi
}

// CompileText is a convenience wrapper combining ParseLines and Compile.
func CompileText(text string) *wordindex.WordIndex {
	return Compile(ParseLines(text))
}
