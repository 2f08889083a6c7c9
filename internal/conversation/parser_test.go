package conversation

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

func sessionIn(mode domain.CookMode) *domain.CookSession {
	return &domain.CookSession{ID: "s", Progress: domain.CookProgress{Mode: mode, Checked: []bool{false, false}}}
}

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	executing := sessionIn(domain.CookExecuting)
	collecting := sessionIn(domain.CookCollecting)

	tests := []struct {
		input       string
		session     *domain.CookSession
		wantType    domain.IntentType
		wantPayload string
	}{
		// Next variants
		{"next", executing, domain.IntentNext, ""},
		{"N", executing, domain.IntentNext, ""},
		{"done", executing, domain.IntentNext, ""},

		// Previous
		{"back", executing, domain.IntentPrevious, ""},
		{"prev", executing, domain.IntentPrevious, ""},
		{"b", executing, domain.IntentPrevious, ""},

		// Toggle
		{"check 2", collecting, domain.IntentToggleIngredient, "2"},
		{"toggle #10", collecting, domain.IntentToggleIngredient, "10"},
		{"Tick 1", nil, domain.IntentToggleIngredient, "1"},
		{"3", collecting, domain.IntentToggleIngredient, "3"},

		// Proceed
		{"go", collecting, domain.IntentProceed, ""},
		{"proceed", collecting, domain.IntentProceed, ""},
		{"done", collecting, domain.IntentProceed, ""},
		{"go", nil, domain.IntentProceed, ""},

		// Repeat and status
		{"repeat", executing, domain.IntentRepeat, ""},
		{"what?", executing, domain.IntentRepeat, ""},
		{"status", collecting, domain.IntentStatus, ""},

		// Exit
		{"exit", collecting, domain.IntentExit, ""},
		{"quit", executing, domain.IntentExit, ""},
		{"q", nil, domain.IntentExit, ""},

		// Help
		{"help", nil, domain.IntentHelp, ""},
		{"?", executing, domain.IntentHelp, ""},

		// Bare numbers only mean something on the checklist
		{"1", nil, domain.IntentUnknown, "1"},
		{"2", executing, domain.IntentUnknown, "2"},

		// Unknown
		{"list", collecting, domain.IntentUnknown, "list"},
		{"select 2", collecting, domain.IntentUnknown, "select 2"},
		{"flambé the cat", executing, domain.IntentUnknown, "flambé the cat"},
		{"check", collecting, domain.IntentUnknown, "check"},
		{"", nil, domain.IntentUnknown, ""},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%q/%v", tt.input, tt.session != nil)
		t.Run(name, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input, tt.session)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, intent.Type, "input=%q", tt.input)
			if tt.wantPayload != "" {
				assert.Equal(t, tt.wantPayload, intent.Payload, "input=%q", tt.input)
			}
		})
	}
}

func TestHelpText(t *testing.T) {
	assert.Contains(t, HelpText(domain.CookCollecting), "check N")
	assert.Contains(t, HelpText(domain.CookExecuting), "next")
	assert.Equal(t, "help · exit", HelpText(domain.CookInactive))
}

func TestCLINotifier(t *testing.T) {
	var got []string
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), func(format string, a ...any) {
		got = append(got, fmt.Sprintf(format, a...))
	})

	require.NoError(t, n.Notify(context.Background(), "still cooking?"))
	require.NoError(t, n.NotifyUrgent(context.Background(), "session closed"))
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "still cooking?")
	assert.Contains(t, got[1], "session closed")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(logger.LevelNormal, &buf))

	require.NoError(t, n.Notify(context.Background(), "nudge"))
	require.NoError(t, n.NotifyUrgent(context.Background(), "closed"))
	assert.Contains(t, buf.String(), "nudge")
	assert.Contains(t, buf.String(), "WARN")
}
