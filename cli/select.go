package cli

import (
	"path/filepath"
	"strings"

	"facette.io/natsort"
	"github.com/manifoldco/promptui"
)

const doneChoice = "[Done]"

// PromptScenario lets the user pick one scenario file out of paths.
func PromptScenario(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}

	items := sortedUnique(paths)

	sel := &promptui.Select{
		Label:    "Scenario",
		Items:    items,
		Searcher: searcher(items, 0),
	}

	_, value, err := sel.Run()

	return value, err
}

// MultiSelect lets the user pick any number of choices. The result keeps the
// order of choices.
func MultiSelect(label string, choices ...string) ([]string, error) {
	if len(choices) == 0 {
		return nil, nil
	}

	remaining := sortedUnique(choices)
	selected := make(map[string]struct{}, len(remaining))

	for len(remaining) > 0 {
		items := append([]string{doneChoice}, remaining...)

		sel := &promptui.Select{
			Label:    label,
			Items:    items,
			Searcher: searcher(items, 1),
		}

		idx, value, err := sel.Run()
		if err != nil {
			return nil, err
		}

		if idx == 0 {
			break
		}

		selected[value] = struct{}{}
		remaining = without(remaining, value)
	}

	return keep(choices, selected), nil
}

// searcher matches on the file base name as well as the full item. Items
// before skip are never matched.
func searcher(items []string, skip int) func(string, int) bool {
	return func(input string, index int) bool {
		if index < skip || input == "" {
			return false
		}

		item := items[index]

		return strings.HasPrefix(item, input) || strings.HasPrefix(filepath.Base(item), input)
	}
}

func sortedUnique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))

	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	natsort.Sort(out)

	return out
}

func without(in []string, drop string) []string {
	out := make([]string, 0, len(in))

	for _, s := range in {
		if s != drop {
			out = append(out, s)
		}
	}

	return out
}

func keep(choices []string, selected map[string]struct{}) []string {
	var out []string

	for _, c := range choices {
		if _, ok := selected[c]; ok {
			out = append(out, c)
			delete(selected, c)
		}
	}

	return out
}
