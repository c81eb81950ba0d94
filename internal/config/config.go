// Package config provides configuration file support for prloop.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/richhaase/pr-review-loop/internal/git"
	"github.com/richhaase/pr-review-loop/internal/precheck"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = ".prloop.yaml"

// Command is a build-system command configured either as a string
// ("dx build all") or a YAML list (["dx", "build", "all"]).
type Command []string

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *Command) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*c = list
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("command must be a string or list of strings")
	}
	*c = strings.Fields(s)
	return nil
}

// Config represents the prloop configuration file.
type Config struct {
	MaxRounds     *int     `yaml:"max_rounds"`
	Repo          *string  `yaml:"repo"`
	CacheClearCmd *Command `yaml:"cache_clear_cmd"`
	LintCmd       *Command `yaml:"lint_cmd"`
	BuildCmd      *Command `yaml:"build_cmd"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadWithWarnings reads .prloop.yaml from the git repository root and
// returns warnings. Returns an empty config (not error) if the file
// doesn't exist.
func LoadWithWarnings(ctx context.Context) (*LoadResult, error) {
	repoRoot, err := git.Root(ctx)
	if err != nil {
		// Not in a git repo - return empty config
		return &LoadResult{Config: &Config{}}, nil
	}
	return LoadFromPathWithWarnings(filepath.Join(repoRoot, ConfigFileName))
}

// LoadFromPathWithWarnings reads a config file and returns warnings for
// unknown keys. Returns an empty config (not error) if the file doesn't
// exist. Returns an error if the file exists but is invalid.
func LoadFromPathWithWarnings(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if c.MaxRounds != nil && *c.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be >= 1, got %d", *c.MaxRounds)
	}
	if c.Repo != nil && !strings.Contains(*c.Repo, "/") {
		return fmt.Errorf("repo must be owner/name, got %q", *c.Repo)
	}
	for name, cmd := range map[string]*Command{
		"cache_clear_cmd": c.CacheClearCmd,
		"lint_cmd":        c.LintCmd,
		"build_cmd":       c.BuildCmd,
	} {
		if cmd != nil && len(*cmd) == 0 {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return nil
}

// knownTopLevelKeys are the valid top-level keys in the config file.
var knownTopLevelKeys = []string{"max_rounds", "repo", "cache_clear_cmd", "lint_cmd", "build_cmd"}

// checkUnknownKeys checks for unknown keys in the YAML data and returns warnings.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// If we can't parse, let the main parser handle the error
		return nil
	}

	for key := range raw {
		if !slices.Contains(knownTopLevelKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownTopLevelKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}

	return warnings
}

// findSimilar finds the most similar string from candidates using Levenshtein distance.
// Returns empty string if no candidate is similar enough (threshold: 3 edits).
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// Defaults holds the built-in default values.
var Defaults = ResolvedConfig{
	MaxRounds: 3,
	Cmds:      precheck.DefaultCommands(),
}

// ResolvedConfig holds the final resolved configuration values.
type ResolvedConfig struct {
	MaxRounds int
	Repo      string
	Cmds      precheck.Commands
}

// FlagState tracks whether a flag was explicitly set.
type FlagState struct {
	MaxRoundsSet bool
	RepoSet      bool
}

// EnvState captures env var values and whether they were set.
type EnvState struct {
	MaxRounds        int
	MaxRoundsSet     bool
	Repo             string
	RepoSet          bool
	CacheClearCmd    []string
	CacheClearCmdSet bool
	LintCmd          []string
	LintCmdSet       bool
	BuildCmd         []string
	BuildCmdSet      bool
}

// LoadEnvState reads environment variables and returns their state.
func LoadEnvState() EnvState {
	var state EnvState

	if v := os.Getenv("PRLOOP_MAX_ROUNDS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			state.MaxRounds = i
			state.MaxRoundsSet = true
		}
	}
	if v := os.Getenv("PRLOOP_REPO"); v != "" {
		state.Repo = v
		state.RepoSet = true
	}
	if v := os.Getenv("PRLOOP_CACHE_CLEAR_CMD"); v != "" {
		state.CacheClearCmd = strings.Fields(v)
		state.CacheClearCmdSet = true
	}
	if v := os.Getenv("PRLOOP_LINT_CMD"); v != "" {
		state.LintCmd = strings.Fields(v)
		state.LintCmdSet = true
	}
	if v := os.Getenv("PRLOOP_BUILD_CMD"); v != "" {
		state.BuildCmd = strings.Fields(v)
		state.BuildCmdSet = true
	}

	return state
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults
func Resolve(cfg *Config, envState EnvState, flagState FlagState, flagValues ResolvedConfig) ResolvedConfig {
	result := Defaults

	if cfg != nil {
		if cfg.MaxRounds != nil {
			result.MaxRounds = *cfg.MaxRounds
		}
		if cfg.Repo != nil {
			result.Repo = *cfg.Repo
		}
		if cfg.CacheClearCmd != nil {
			result.Cmds.CacheClear = *cfg.CacheClearCmd
		}
		if cfg.LintCmd != nil {
			result.Cmds.Lint = *cfg.LintCmd
		}
		if cfg.BuildCmd != nil {
			result.Cmds.Build = *cfg.BuildCmd
		}
	}

	if envState.MaxRoundsSet {
		result.MaxRounds = envState.MaxRounds
	}
	if envState.RepoSet {
		result.Repo = envState.Repo
	}
	if envState.CacheClearCmdSet {
		result.Cmds.CacheClear = envState.CacheClearCmd
	}
	if envState.LintCmdSet {
		result.Cmds.Lint = envState.LintCmd
	}
	if envState.BuildCmdSet {
		result.Cmds.Build = envState.BuildCmd
	}

	if flagState.MaxRoundsSet {
		result.MaxRounds = flagValues.MaxRounds
	}
	if flagState.RepoSet {
		result.Repo = flagValues.Repo
	}

	return result
}
