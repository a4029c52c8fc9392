// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted (Ctrl+C).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

// wrapError converts promptui interrupt/abort errors to ErrAborted.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Input prompts for text. An empty answer takes defaultValue. validate
// may be nil.
func Input(label, defaultValue string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: true,
		Validate:  validate,
	}
	result, err := p.Run()
	return strings.TrimSpace(result), wrapError(err)
}

// SelectOption represents an item in a selection list.
type SelectOption struct {
	Label       string
	Value       string
	Description string
}

func selectTemplates(withDetails bool) *promptui.SelectTemplates {
	t := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label | white }}",
		Selected: "* {{ .Label | green }}",
	}
	if withDetails {
		t.Details = `
{{ "Description:" | faint }}	{{ .Description }}`
	}
	return t
}

// Select prompts for one of options and returns its Value. The cursor
// starts on the option whose Value equals current.
func Select(label string, options []SelectOption, current string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", label)
	}
	p := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: selectTemplates(options[0].Description != ""),
		Size:      10,
		CursorPos: indexOf(options, current),
	}

	i, _, err := p.Run()
	if err != nil {
		return "", wrapError(err)
	}
	return options[i].Value, nil
}

func indexOf(options []SelectOption, value string) int {
	for i, o := range options {
		if o.Value == value {
			return i
		}
	}
	return 0
}
