package config

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		// git config exits 1 when no key matches, and local lookups outside a
		// repository fail with 128; neither is an error for us.
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 1 || exitErr.ExitCode() == 128) {
			return "", nil
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses git config output into a multi-value map.
// Input format: "gp.ignore_file .gitignore\ngp.show_icons false\n"
func parseGitConfigOutput(output string) map[string][]string {
	configMap := make(map[string][]string)
	if output == "" {
		return configMap
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		// values may contain spaces
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], keyPrefix)
		configMap[key] = append(configMap[key], parts[1])
	}

	return configMap
}

// convertGitConfig converts to the map shape apply() expects. When a key is
// set several times the last value wins, as git itself does.
func convertGitConfig(gitCfg map[string][]string) map[string]any {
	result := make(map[string]any, len(gitCfg))
	for key, values := range gitCfg {
		if len(values) == 0 {
			continue
		}
		result[key] = values[len(values)-1]
	}
	return result
}

// loadGitConfig reads gp.* git config values.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", `^gp\.`}
	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}
	return convertGitConfig(parseGitConfigOutput(output)), nil
}

// parseCLIConfigOverrides parses --config=gp.key=value format.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config override: %q, expected format: gp.key=value (note: use = not space)", override)
		}

		fullKey := parts[0]
		if !strings.HasPrefix(fullKey, keyPrefix) {
			return nil, fmt.Errorf("config override key must start with '%s': %q", keyPrefix, fullKey)
		}

		key := strings.TrimPrefix(fullKey, keyPrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		result[key] = parts[1]
	}

	return result, nil
}
