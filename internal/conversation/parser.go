// Package conversation turns typed cook-mode commands into intents and
// prints notifications to the terminal.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns. The current session, when given, disambiguates words like "go"
// and bare numbers.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
	toggle   *regexp.Regexp
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(next|n|done|continue|forward)$`), domain.IntentNext},
		{regexp.MustCompile(`(?i)^(back|prev|previous|b|p)$`), domain.IntentPrevious},
		{regexp.MustCompile(`(?i)^(go|proceed|ready|cook|let'?s go)$`), domain.IntentProceed},
		{regexp.MustCompile(`(?i)^(repeat|again|what\??|r)$`), domain.IntentRepeat},
		{regexp.MustCompile(`(?i)^(status|where|progress|info)$`), domain.IntentStatus},
		{regexp.MustCompile(`(?i)^(quit|exit|stop|q|abandon)$`), domain.IntentExit},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
	}
	p.toggle = regexp.MustCompile(`(?i)^(?:check|uncheck|toggle|tick|untick|got|x)\s+#?(\d{1,3})$`)
	return p
}

// Parse converts user input into an intent. Ingredient payloads are
// 1-based, as the user sees them.
func (p *KeywordParser) Parse(ctx context.Context, input string, session *domain.CookSession) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)
	mode := domain.CookInactive
	if session != nil {
		mode = session.Progress.Mode
	}

	if m := p.toggle.FindStringSubmatch(trimmed); m != nil {
		return &domain.Intent{Type: domain.IntentToggleIngredient, Payload: m[1]}, nil
	}

	// A bare number ticks an ingredient, but only on the checklist.
	if mode == domain.CookCollecting && len(trimmed) <= 3 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentToggleIngredient, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		if !rule.regex.MatchString(trimmed) {
			continue
		}
		intent := rule.intent
		if intent == domain.IntentNext && mode == domain.CookCollecting {
			// "done" with the checklist means move on to the steps.
			intent = domain.IntentProceed
		}
		p.log.Debug("matched intent: %s", intent)
		return &domain.Intent{Type: intent}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// HelpText lists the commands Parse understands.
func HelpText(mode domain.CookMode) string {
	switch mode {
	case domain.CookCollecting:
		return "check N: tick ingredient N · go: start the steps · status · exit"
	case domain.CookExecuting:
		return "next · back · repeat · status · exit"
	default:
		return "help · exit"
	}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
