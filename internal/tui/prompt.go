package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// PlaintextInput prompts for a single line. validate may be nil.
func PlaintextInput(title string, validate func(string) error) (string, error) {
	return input(title, huh.EchoModeNormal, validate)
}

// HiddenInput prompts for a single line without echoing it.
func HiddenInput(title string) (string, error) {
	return input(title, huh.EchoModePassword, nil)
}

func input(title string, mode huh.EchoMode, validate func(string) error) (string, error) {
	var result string
	field := huh.NewInput().
		Title(title).
		EchoMode(mode).
		Value(&result)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := field.Run(); err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return result, nil
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(title string) (bool, error) {
	var ok bool
	if err := huh.NewConfirm().Title(title).Value(&ok).Run(); err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}
	return ok, nil
}
