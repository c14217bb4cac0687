// pkg/interaction/prompt.go

package interaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/kramden/provision/pkg/kramden_err"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// YesNo asks a yes/no question. Unrecognised answers and empty input take
// the default; a read error is returned with the default.
func (p *Prompter) YesNo(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	defPrompt := DefaultYesPrompt
	if !defaultYes {
		defPrompt = DefaultNoPrompt
	}

	input, err := p.ReadLine(ctx, fmt.Sprintf("%s [%s]", prompt, defPrompt))
	if err != nil {
		return defaultYes, err
	}

	if answer, ok := NormalizeYesNoInput(input); ok {
		otelzap.Ctx(ctx).Info("User input parsed", zap.String("prompt", prompt), zap.Bool("answer", answer))
		return answer, nil
	}

	otelzap.Ctx(ctx).Info("Default applied", zap.String("prompt", prompt), zap.Bool("default_yes", defaultYes))
	return defaultYes, nil
}

// ConfirmPhrase requires the operator to type phrase exactly. Anything else
// cancels. A non-interactive prompter refuses outright, since nobody is
// there to confirm.
func (p *Prompter) ConfirmPhrase(ctx context.Context, prompt, phrase string) error {
	logger := otelzap.Ctx(ctx)

	if !p.interactive {
		logger.Warn("Confirmation required but input is not a terminal")
		return kramden_err.NewValidationError(
			"refusing to erase without interactive confirmation",
			"Run from a terminal, or pass --yes to skip the prompt",
		)
	}

	input, err := p.ReadLine(ctx, fmt.Sprintf("%s (type %s to continue)", prompt, phrase))
	if err != nil {
		return kramden_err.NewUserCancelledError("erase confirmation")
	}
	if input != phrase {
		logger.Info("Confirmation phrase mismatch, aborting")
		return kramden_err.NewUserCancelledError("erase confirmation")
	}

	logger.Info("Destructive operation confirmed by operator")
	return nil
}

// NormalizeYesNoInput reports (answer, recognised) for y/yes/n/no in any case.
func NormalizeYesNoInput(input string) (bool, bool) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == YesShort || input == YesLong {
		return true, true
	}
	if input == NoShort || input == NoLong {
		return false, true
	}
	return false, false
}
