// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/temirov/contextbuilder/internal/config"
	"github.com/temirov/contextbuilder/internal/document"
	"github.com/temirov/contextbuilder/internal/selection"
	"github.com/temirov/contextbuilder/internal/services/clipboard"
	"github.com/temirov/contextbuilder/internal/tokenizer"
	"github.com/temirov/contextbuilder/internal/utils"
)

const (
	outputFlagName        = "output"
	outputFlagShorthand   = "o"
	noClipboardFlagName   = "no-clipboard"
	noClipboardShorthand  = "n"
	clipboardFlagName     = "clipboard"
	promptFlagName        = "prompt"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	exclusionFlagName     = "e"
	noGitignoreFlagName   = "no-gitignore"
	noIgnoreFlagName      = "no-ignore"
	includeGitFlagName    = "git"
	configFlagName        = "config"
	verboseFlagName       = "verbose"
	verboseFlagShorthand  = "v"
	versionFlagName       = "version"
	globalFlagName        = "global"
	forceFlagName         = "force"
	versionTemplate       = "%s version: %s\n"
	rootUse               = utils.ApplicationName + " [patterns...]"
	rootShortDescription  = "combine files into a single Markdown context for AI chats"
	rootLongDescription   = `contextbuilder expands the given file patterns, renders a directory tree and a
file manifest, and concatenates every file under an instructional prompt.
The result is copied to the clipboard, written to --output, or streamed to
stdout when stdout is not a terminal.`
	rootUsageExample = `  # Copy two files to the clipboard
  contextbuilder src/main.py README.md

  # Write every Go file to a file and include token counts
  contextbuilder "**/*.go" -o project_context.md --tokens`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Create .contextbuilder.yaml in the working directory, or
~/.contextbuilder/config.yaml with --global.`

	outputFlagDescription       = "write the document to this file"
	noClipboardFlagDescription  = "do not copy the document to the clipboard"
	clipboardFlagDescription    = "copy the document to the clipboard"
	promptFlagDescription       = "file whose content replaces the built-in prompt"
	tokensFlagDescription       = "include token counts in the manifest"
	modelFlagDescription        = "tokenizer model to use for token counting"
	exclusionFlagDescription    = "exclude path pattern"
	disableGitignoreDescription = "do not use .gitignore"
	disableIgnoreDescription    = "do not use .ignore"
	includeGitFlagDescription   = "include git directory"
	configFlagDescription       = "configuration file to use instead of ./" + utils.LocalConfigFileName
	verboseFlagDescription      = "enable debug logging"
	versionFlagDescription      = "display application version"
	globalFlagDescription       = "write the global configuration instead of the local one"
	forceFlagDescription        = "overwrite an existing configuration file"

	unmatchedPatternMessage    = "pattern matched no files"
	selectedFilesMessage       = "files selected"
	tokenizerSelectedMessage   = "token counting enabled"
	contextBuiltMessage        = "context built"
	contextWrittenMessage      = "context written"
	clipboardCopiedMessage     = "context copied to clipboard"
	clipboardFailedMessage     = "clipboard copy failed"
	configurationWrittenFormat = "configuration written to %s\n"
	workingDirectoryErrorFmt   = "determine working directory: %w"
	loadConfigurationErrorFmt  = "load configuration: %w"
	tokenizerErrorFmt          = "initialize tokenizer: %w"
)

var (
	errMissingPatterns = errors.New("at least one file pattern is required")
	errNoFilesFound    = errors.New("no files found for the given patterns")
)

// Dependencies are the collaborators the commands use. Zero fields fall back
// to the process environment.
type Dependencies struct {
	Logger           *zap.Logger
	LogLevel         *zap.AtomicLevel
	Clipboard        clipboard.Copier
	Stdout           io.Writer
	IsTerminal       func() bool
	WorkingDirectory string
	Now              func() time.Time
	NewTokenCounter  func(tokenizer.Config) (tokenizer.Counter, string, error)
}

func (dependencies Dependencies) withDefaults() Dependencies {
	resolved := dependencies
	if resolved.Logger == nil {
		resolved.Logger = zap.NewNop()
	}
	if resolved.Clipboard == nil {
		resolved.Clipboard = clipboard.NewService()
	}
	if resolved.Stdout == nil {
		resolved.Stdout = os.Stdout
	}
	if resolved.IsTerminal == nil {
		resolved.IsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	}
	if resolved.Now == nil {
		resolved.Now = time.Now
	}
	if resolved.NewTokenCounter == nil {
		resolved.NewTokenCounter = tokenizer.NewCounter
	}
	return resolved
}

func (dependencies Dependencies) workingDirectory() (string, error) {
	if dependencies.WorkingDirectory != "" {
		return dependencies.WorkingDirectory, nil
	}
	currentDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFmt, err)
	}
	return currentDirectory, nil
}

// Execute runs the contextbuilder application with the process arguments.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger, LogLevel: &level})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// rootOptions stores the values of the root command flags.
type rootOptions struct {
	outputPath        string
	disableClipboard  bool
	clipboardEnabled  bool
	promptPath        string
	tokensEnabled     bool
	tokenizerModel    string
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
	configPath        string
	verbose           bool
	showVersion       bool
}

// NewRootCommand builds the root Cobra command and its subcommands.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	resolved := dependencies.withDefaults()
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.verbose && resolved.LogLevel != nil {
				resolved.LogLevel.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.ApplicationName, utils.GetApplicationVersion())
				return err
			}
			if len(arguments) == 0 {
				return errMissingPatterns
			}
			return runBuild(command, arguments, options, resolved)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	flagSet.BoolVarP(&options.disableClipboard, noClipboardFlagName, noClipboardShorthand, false, noClipboardFlagDescription)
	registerBooleanFlag(flagSet, &options.clipboardEnabled, clipboardFlagName, true, clipboardFlagDescription)
	flagSet.StringVar(&options.promptPath, promptFlagName, "", promptFlagDescription)
	registerBooleanFlag(flagSet, &options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&options.tokenizerModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	flagSet.BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreDescription)
	flagSet.BoolVar(&options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreDescription)
	flagSet.BoolVar(&options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&options.verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand(resolved))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, err := dependencies.workingDirectory()
			if err != nil {
				return err
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, writtenPath)
			return err
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// buildSettings is the effective configuration after flags override the
// configuration files.
type buildSettings struct {
	outputPath     string
	copyClipboard  bool
	promptPath     string
	countTokens    bool
	tokenizerModel string
	ignore         config.IgnoreOptions
}

// resolveSettings layers explicitly set flags over the loaded configuration.
func resolveSettings(command *cobra.Command, options rootOptions, configuration config.ApplicationConfiguration, workingDirectory string) buildSettings {
	flags := command.Flags()
	settings := buildSettings{
		outputPath:     configuration.Output,
		copyClipboard:  config.BoolOrDefault(configuration.Clipboard, true),
		promptPath:     configuration.PromptFile,
		countTokens:    config.BoolOrDefault(configuration.Tokens.Enabled, false),
		tokenizerModel: configuration.Tokens.Model,
		ignore: config.IgnoreOptions{
			ExclusionPatterns: configuration.Paths.Exclude,
			UseGitignore:      config.BoolOrDefault(configuration.Paths.UseGitignore, true),
			UseIgnoreFile:     config.BoolOrDefault(configuration.Paths.UseIgnoreFile, true),
			IncludeGit:        config.BoolOrDefault(configuration.Paths.IncludeGit, false),
		},
	}
	if flags.Changed(outputFlagName) {
		settings.outputPath = options.outputPath
	}
	if flags.Changed(clipboardFlagName) {
		settings.copyClipboard = options.clipboardEnabled
	}
	if options.disableClipboard {
		settings.copyClipboard = false
	}
	if flags.Changed(promptFlagName) {
		settings.promptPath = options.promptPath
	}
	if flags.Changed(tokensFlagName) {
		settings.countTokens = options.tokensEnabled
	}
	if flags.Changed(modelFlagName) || settings.tokenizerModel == "" {
		settings.tokenizerModel = options.tokenizerModel
	}
	if len(options.exclusionPatterns) > 0 {
		settings.ignore.ExclusionPatterns = utils.DeduplicatePatterns(append(append([]string{}, settings.ignore.ExclusionPatterns...), options.exclusionPatterns...))
	}
	if options.disableGitignore {
		settings.ignore.UseGitignore = false
	}
	if options.disableIgnoreFile {
		settings.ignore.UseIgnoreFile = false
	}
	if flags.Changed(includeGitFlagName) {
		settings.ignore.IncludeGit = options.includeGit
	}
	settings.outputPath = resolveAgainst(workingDirectory, settings.outputPath)
	settings.promptPath = resolveAgainst(workingDirectory, settings.promptPath)
	return settings
}

func resolveAgainst(workingDirectory string, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}

// runBuild expands the patterns, builds the document and delivers it.
func runBuild(command *cobra.Command, patterns []string, options rootOptions, dependencies Dependencies) error {
	logger := dependencies.Logger
	workingDirectory, err := dependencies.workingDirectory()
	if err != nil {
		return err
	}
	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if err != nil {
		return fmt.Errorf(loadConfigurationErrorFmt, err)
	}
	settings := resolveSettings(command, options, configuration, workingDirectory)

	selected, err := selection.Expand(selection.Options{
		WorkingDirectory: workingDirectory,
		Patterns:         patterns,
		Ignore:           settings.ignore,
	})
	if err != nil {
		return err
	}
	for _, pattern := range selected.Unmatched {
		logger.Warn(unmatchedPatternMessage, zap.String("pattern", pattern))
	}
	if len(selected.Paths) == 0 {
		return errNoFilesFound
	}
	logger.Debug(selectedFilesMessage, zap.Int("count", len(selected.Paths)))

	prompt, err := document.LoadPrompt(settings.promptPath)
	if err != nil {
		return err
	}
	builder := document.Builder{
		Prompt:        prompt,
		BaseDirectory: workingDirectory,
		Now:           dependencies.Now,
		Logger:        logger,
	}
	if settings.countTokens {
		counter, modelName, counterError := dependencies.NewTokenCounter(tokenizer.Config{Model: settings.tokenizerModel})
		if counterError != nil {
			return fmt.Errorf(tokenizerErrorFmt, counterError)
		}
		logger.Debug(tokenizerSelectedMessage, zap.String("model", modelName))
		builder.TokenCounter = counter
	}

	result, err := builder.Build(selected.Paths)
	if err != nil {
		return err
	}
	logger.Info(contextBuiltMessage, zap.String("summary", document.FormatSummary(result)))

	if settings.outputPath != "" {
		if writeError := document.WriteFile(settings.outputPath, result.Content); writeError != nil {
			return writeError
		}
		logger.Info(contextWrittenMessage, zap.String("path", settings.outputPath))
	}

	if settings.copyClipboard {
		if copyError := dependencies.Clipboard.Copy(result.Content); copyError != nil {
			logger.Warn(clipboardFailedMessage, zap.Error(copyError))
		} else {
			logger.Info(clipboardCopiedMessage)
		}
	}

	if settings.outputPath == "" && !dependencies.IsTerminal() {
		if _, writeError := io.WriteString(dependencies.Stdout, result.Content); writeError != nil {
			return writeError
		}
	}
	return nil
}
