package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
)

// hierarchySeparator splits environment variable names into key segments
// when a key segment itself contains underscores, e.g.
// SERVER__READ_TIMEOUT sets server.read_timeout.
const hierarchySeparator = "__"

type loaderConfig struct {
	configFile string
	envFile    string
	searchDirs []string
	environ    func() []string
}

// LoaderOption configures LoadTree.
type LoaderOption func(*loaderConfig)

// WithConfigFile reads configuration from path instead of searching for it.
// The file must exist.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile reads .env style variables from path instead of searching for
// a .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// withEnviron replaces the process environment.
func withEnviron(environ func() []string) LoaderOption {
	return func(lc *loaderConfig) { lc.environ = environ }
}

// withSearchDirs replaces the directories searched for files.
func withSearchDirs(dirs ...string) LoaderOption {
	return func(lc *loaderConfig) { lc.searchDirs = dirs }
}

// LoadTree builds the configuration tree for a service from, in increasing
// precedence: a configuration file, a .env file and the process environment.
//
// Without WithConfigFile the first of appsettings.json, <service>.yml,
// <service>.yaml, <service>.json, config.yml, config.yaml and config.json
// found in ".", "./config" or "./cmd/<service>" is used; finding none is not
// an error. Configuration errors carry the INVALID_INPUT code.
func LoadTree(serviceName string, opts ...LoaderOption) (Tree, error) {
	lc := loaderConfig{
		searchDirs: []string{".", "config", filepath.Join("cmd", serviceName)},
		environ:    os.Environ,
	}
	for _, opt := range opts {
		opt(&lc)
	}

	tree := &viperTree{v: viper.New()}
	file := lc.configFile
	if file == "" {
		file = findFile(lc.searchDirs, configFileNames(serviceName))
	} else if !fileExists(file) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "configuration file not found").
			WithDetail("file", file)
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, configError(file, err)
		}
		parsed, err := parseTree(formatOf(file), data)
		if err != nil {
			return nil, configError(file, err)
		}
		tree = parsed
	}

	env, err := environment(lc, serviceName)
	if err != nil {
		return nil, err
	}
	for name, value := range env {
		key := envKey(name)
		if key == "" {
			continue
		}
		// merged, not Set: an override would hide sibling keys from the file
		if err := tree.v.MergeConfigMap(nestedValue(key, value)); err != nil {
			return nil, configError(name, err)
		}
	}

	logger.Debug("configuration loaded", logger.Fields(
		logger.FieldServiceName, serviceName,
		"file", file,
	))
	return tree, nil
}

// environment merges the .env file under the process environment. The
// process environment is never modified.
func environment(lc loaderConfig, serviceName string) (map[string]string, error) {
	env := map[string]string{}

	envFile := lc.envFile
	if envFile == "" {
		envFile = findFile(lc.searchDirs, []string{".env." + serviceName, ".env"})
	}
	if envFile != "" {
		dotenv, err := godotenv.Read(envFile)
		if err != nil {
			return nil, configError(envFile, err)
		}
		for k, v := range dotenv {
			env[k] = v
		}
	}

	for _, kv := range lc.environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			env[name] = value
		}
	}
	return env, nil
}

// envKey maps an environment variable name onto a configuration key.
// Names split on "__" when they contain it and on "_" otherwise; names with
// no separator are not configuration.
func envKey(name string) string {
	sep := "_"
	if strings.Contains(name, hierarchySeparator) {
		sep = hierarchySeparator
	}
	parts := strings.Split(strings.ToLower(name), sep)
	if len(parts) < 2 {
		return ""
	}
	for _, p := range parts {
		if p == "" {
			return ""
		}
	}
	return strings.Join(parts, ".")
}

// nestedValue expands "a.b.c" into {"a": {"b": {"c": value}}}.
func nestedValue(key, value string) map[string]any {
	parts := strings.Split(key, ".")
	var node any = value
	for i := len(parts) - 1; i >= 0; i-- {
		node = map[string]any{parts[i]: node}
	}
	return node.(map[string]any)
}

func configFileNames(serviceName string) []string {
	return []string{
		"appsettings.json",
		serviceName + ".yml",
		serviceName + ".yaml",
		serviceName + ".json",
		"config.yml",
		"config.yaml",
		"config.json",
	}
}

func findFile(dirs, names []string) string {
	for _, name := range names {
		for _, dir := range dirs {
			if path := filepath.Join(dir, name); fileExists(path) {
				return path
			}
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func formatOf(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "yml" {
		return "yaml"
	}
	return strings.ToLower(ext)
}

func configError(file string, err error) error {
	return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("reading configuration %s", file)).
		WithCause(err).
		WithDetail("file", file)
}
