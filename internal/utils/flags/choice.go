package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefixConstant  = "<"
	choicePlaceholderSuffixConstant  = ">"
	choiceSeparatorConstant          = "|"
	choiceUsageEmptyTemplateConstant = "`%s`"
	choiceUsageFullTemplateConstant  = "`%s` %s"
	choiceTypeNameConstant           = "choice"
	invalidChoiceTemplateConstant    = "invalid value %q, expected one of %s"
)

// ChoiceValue is a string flag restricted to a fixed set of case-insensitive values.
type ChoiceValue struct {
	value   string
	choices []string
}

// AddChoiceFlag registers a choice flag whose usage highlights the default value.
func AddChoiceFlag(flagSet *pflag.FlagSet, name string, defaultChoice string, choices []string, description string) *ChoiceValue {
	choiceValue := &ChoiceValue{value: strings.ToLower(strings.TrimSpace(defaultChoice)), choices: normalizeChoices(choices)}
	if flagSet != nil {
		flagSet.Var(choiceValue, name, FormatChoiceUsage(defaultChoice, choices, description))
	}
	return choiceValue
}

// String returns the current value.
func (choiceValue *ChoiceValue) String() string {
	if choiceValue == nil {
		return ""
	}
	return choiceValue.value
}

// Set accepts value when it matches one of the configured choices.
func (choiceValue *ChoiceValue) Set(value string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	for _, choice := range choiceValue.choices {
		if choice == normalizedValue {
			choiceValue.value = normalizedValue
			return nil
		}
	}
	return fmt.Errorf(invalidChoiceTemplateConstant, value, strings.Join(choiceValue.choices, ", "))
}

// Type names the flag value type in help output.
func (choiceValue *ChoiceValue) Type() string {
	return choiceTypeNameConstant
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	displayedChoices := normalizeChoices(choices)
	for index, choice := range displayedChoices {
		if choice == normalizedDefault {
			displayedChoices[index] = strings.ToUpper(choice)
		}
	}

	placeholder := choicePlaceholderPrefixConstant + strings.Join(displayedChoices, choiceSeparatorConstant) + choicePlaceholderSuffixConstant
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplateConstant, placeholder, description)
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		normalized = append(normalized, normalizedChoice)
	}
	return normalized
}
