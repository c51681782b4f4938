package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/contextbuilder/internal/utils"
)

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	explicitContent string
	expectOutput    string
	expectClipboard *bool
	expectTokens    *bool
	expectModel     string
	expectExclude   []string
	expectGitignore *bool
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "output: global.md\nclipboard: true\ntokens:\n  model: gpt-4\npaths:\n  exclude: [vendor/]\n",
			localContent:    "clipboard: false\ntokens:\n  enabled: true\n  model: gpt-4o\n",
			expectOutput:    "global.md",
			expectClipboard: boolPointer(false),
			expectTokens:    boolPointer(true),
			expectModel:     "gpt-4o",
			expectExclude:   []string{"vendor/"},
		},
		{
			name:            "explicit_path_replaces_local",
			localContent:    "output: local.md\n",
			explicitPath:    "custom.yaml",
			explicitContent: "output: custom.md\npaths:\n  use_gitignore: false\n  exclude: [a, b, a]\n",
			expectOutput:    "custom.md",
			expectExclude:   []string{"a", "b"},
			expectGitignore: boolPointer(false),
		},
		{
			name:          "no_files_yields_empty_configuration",
			expectExclude: []string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				if err := os.WriteFile(filepath.Join(configDir, utils.ConfigFileName), []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				if err := os.WriteFile(filepath.Join(workingDir, utils.LocalConfigFileName), []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				if err := os.WriteFile(filepath.Join(workingDir, testCase.explicitPath), []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Output != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, loadedConfig.Output)
			}
			assertBoolPointer(t, "clipboard", loadedConfig.Clipboard, testCase.expectClipboard)
			assertBoolPointer(t, "tokens", loadedConfig.Tokens.Enabled, testCase.expectTokens)
			assertBoolPointer(t, "use_gitignore", loadedConfig.Paths.UseGitignore, testCase.expectGitignore)
			if loadedConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Tokens.Model)
			}
			if !reflect.DeepEqual(loadedConfig.Paths.Exclude, testCase.expectExclude) {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, loadedConfig.Paths.Exclude)
			}
		})
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: t.TempDir(), ExplicitFilePath: "absent.yaml"})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
}

func TestLoadApplicationConfigurationResolvesPromptFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	workingDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workingDir, utils.LocalConfigFileName), []byte("prompt_file: prompts/review.md\n"), 0o600); err != nil {
		t.Fatalf("write local config: %v", err)
	}
	loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	expected := filepath.Join(workingDir, "prompts", "review.md")
	if loaded.PromptFile != expected {
		t.Fatalf("expected prompt file %s, got %s", expected, loaded.PromptFile)
	}
}

func TestBoolOrDefault(t *testing.T) {
	if !BoolOrDefault(nil, true) {
		t.Fatalf("expected fallback for nil pointer")
	}
	if BoolOrDefault(boolPointer(false), true) {
		t.Fatalf("expected configured value to win over fallback")
	}
}

func assertBoolPointer(t *testing.T, label string, actual *bool, expected *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected no %s override, got %t", label, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("unexpected %s value", label)
	}
}
