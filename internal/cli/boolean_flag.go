package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	literalBooleanTypeName = "bool"
	literalTrue            = "true"
	argumentTerminator     = "--"
	longFlagPrefix         = "--"
	flagValueSeparator     = "="
	invalidLiteralFormat   = "invalid boolean value %q for --%s; accepted values: true, false, yes, no, on, off, 1, 0"
)

var booleanLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseBooleanLiteral interprets yes/no style words. An empty input means true.
func parseBooleanLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	parsed, known := booleanLiterals[normalized]
	return parsed, known
}

// literalBoolean is a pflag.Value accepting --name, --name=value and, after
// normalizeBooleanFlagArguments, --name value.
type literalBoolean struct {
	target   *bool
	flagName string
}

func (value *literalBoolean) Set(input string) error {
	parsed, known := parseBooleanLiteral(input)
	if !known {
		return fmt.Errorf(invalidLiteralFormat, input, value.flagName)
	}
	*value.target = parsed
	return nil
}

func (value *literalBoolean) String() string {
	if value.target == nil {
		return literalTrue
	}
	return strconv.FormatBool(*value.target)
}

func (value *literalBoolean) Type() string {
	return literalBooleanTypeName
}

// registerBooleanFlag defines a literal-tolerant boolean flag on flagSet.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&literalBoolean{target: target, flagName: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = literalTrue
}

// normalizeBooleanFlagArguments joins "--name value" into "--name=value" for
// literal boolean flags when value is a recognized literal, so that
// "--clipboard no" works while "--tokens main.go" keeps main.go as a pattern.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	literalFlags := make(map[string]struct{})
	collectLiteralBooleanFlags(command, literalFlags)
	if len(literalFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == argumentTerminator {
			return append(normalized, arguments[index:]...)
		}
		flagName := strings.TrimPrefix(argument, longFlagPrefix)
		_, isLiteralFlag := literalFlags[flagName]
		if strings.HasPrefix(argument, longFlagPrefix) && isLiteralFlag && !strings.Contains(argument, flagValueSeparator) && index+1 < len(arguments) {
			next := arguments[index+1]
			if _, known := booleanLiterals[strings.ToLower(strings.TrimSpace(next))]; known && !strings.HasPrefix(next, "-") {
				normalized = append(normalized, argument+flagValueSeparator+next)
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectLiteralBooleanFlags(command *cobra.Command, target map[string]struct{}) {
	collect := func(flag *pflag.Flag) {
		if _, isLiteral := flag.Value.(*literalBoolean); isLiteral {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(collect)
	command.Flags().VisitAll(collect)
	for _, child := range command.Commands() {
		collectLiteralBooleanFlags(child, target)
	}
}
