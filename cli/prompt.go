// Package cli holds the interactive bits of the vrbutton command: prompts and banners.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
)

var (
	ErrEmptyInput   = errors.New("you must enter something")
	ErrInvalidDelay = errors.New("invalid delay")
)

func PromptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func PromptString(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validateNonEmpty,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
	}

	return prompt.Run()
}

// PromptDelay asks for a long click delay such as "750ms". An empty answer
// returns 0, which buttons treat as the default delay.
func PromptDelay(label string) (time.Duration, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  "",
		Validate: validateDelay,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
	}

	txt, err := prompt.Run()
	if err != nil {
		return 0, err
	}

	return parseDelay(txt)
}

func validateNonEmpty(s string) error {
	if len(s) == 0 {
		return ErrEmptyInput
	}

	return nil
}

func validateDelay(s string) error {
	_, err := parseDelay(s)

	return err
}

func parseDelay(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDelay, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidDelay, s)
	}

	return d, nil
}
