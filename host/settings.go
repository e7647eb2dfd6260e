package host

import (
	"context"
	"fmt"
)

// SettingsPrompt is the text of a dialog asking the user to enable location.
type SettingsPrompt struct {
	Title    string
	Message  string
	Negative string
	Positive string
}

type SettingsChoice int

const (
	SettingsDismissed SettingsChoice = iota
	SettingsAccepted
)

// SettingsPresenter shows a prompt and waits for the user's choice.
type SettingsPresenter interface {
	PresentSettingsPrompt(ctx context.Context, prompt SettingsPrompt) (SettingsChoice, error)
}

// SettingsOpener takes the user to the platform's location settings.
type SettingsOpener interface {
	OpenLocationSettings(ctx context.Context) error
}

// PromptLocationSettings asks the user to turn location on,
// and opens the location settings if they agree.
// It returns whether the settings were opened.
func PromptLocationSettings(ctx context.Context, presenter SettingsPresenter, opener SettingsOpener, prompt SettingsPrompt) (bool, error) {
	choice, err := presenter.PresentSettingsPrompt(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("present settings prompt: %w", err)
	}
	if choice != SettingsAccepted {
		return false, nil
	}
	if err := opener.OpenLocationSettings(ctx); err != nil {
		return false, fmt.Errorf("open location settings: %w", err)
	}
	return true, nil
}
