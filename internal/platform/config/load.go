package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	kfs "github.com/knadh/koanf/providers/fs"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
	defaultEnvFile   = ".env"
	baseFile         = "base.yaml"
)

// Option configures Load.
type Option func(*loader)

type loader struct {
	files    fs.FS
	override string
	envFile  string
}

// WithConfigDir reads the YAML layers from dir instead of ./configs.
func WithConfigDir(dir string) Option {
	return func(l *loader) { l.files = os.DirFS(dir) }
}

// WithFS reads the YAML layers from fsys. Tests use it with fstest.MapFS.
func WithFS(fsys fs.FS) Option {
	return func(l *loader) { l.files = fsys }
}

// WithOverrideFile layers one more YAML file from disk over the profile,
// typically a mounted secrets file. Unlike the profile layers it is read by
// path, so it may live outside the config directory.
func WithOverrideFile(path string) Option {
	return func(l *loader) { l.override = path }
}

// WithEnvFile names the dotenv file merged into the environment before the
// APP_ variables are read. A missing file is skipped and "" turns the step
// off. Variables already set in the process win over the file.
func WithEnvFile(path string) Option {
	return func(l *loader) { l.envFile = path }
}

// Load builds the Config for profile. Later layers override earlier ones:
//
//	defaults()  <  base.yaml  <  {profile}.yaml  <  override file  <  APP_* environment
//
// An environment name is matched against the keys the earlier layers
// produced, so APP_SERVER_READ_TIMEOUT lands on server.read_timeout rather
// than server.read.timeout. Names with no known key fall back to turning
// every underscore into a dot.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := checkProfile(profile); err != nil {
		return nil, err
	}

	l := &loader{files: os.DirFS(defaultConfigDir), envFile: defaultEnvFile}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.mergeEnvFile(); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := l.layer(k, profile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", profile, err)
	}
	return &cfg, nil
}

func (l *loader) layer(k *koanf.Koanf, profile string) error {
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("default %s: %w", key, err)
		}
	}

	for _, name := range []string{baseFile, profile + ".yaml"} {
		if err := k.Load(kfs.Provider(l.files, name), yaml.Parser()); err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
	}

	if l.override != "" {
		if err := k.Load(file.Provider(l.override), yaml.Parser()); err != nil {
			return fmt.Errorf("reading override %s: %w", l.override, err)
		}
	}

	keys := newEnvKeys(k.Keys())
	if err := k.Load(env.Provider(".", env.Opt{Prefix: envPrefix, TransformFunc: keys.resolve}), nil); err != nil {
		return fmt.Errorf("reading %s environment: %w", envPrefix, err)
	}
	return nil
}

func (l *loader) mergeEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	err := godotenv.Load(l.envFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("reading env file %s: %w", l.envFile, err)
}

// checkProfile rejects names that would escape the config directory.
func checkProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile is required")
	case strings.ContainsAny(profile, `/\`), !fs.ValidPath(profile + ".yaml"):
		return fmt.Errorf("profile %q is not a plain name", profile)
	}
	return nil
}

// envKeys maps an environment-style key (server_read_timeout) to the dotted
// koanf key it stands for (server.read_timeout).
type envKeys map[string]string

func newEnvKeys(dotted []string) envKeys {
	m := make(envKeys, len(dotted))
	for _, key := range dotted {
		m[strings.ReplaceAll(key, ".", "_")] = key
	}
	return m
}

func (m envKeys) resolve(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	if dotted, ok := m[key]; ok {
		return dotted, value
	}
	return strings.ReplaceAll(key, "_", "."), value
}
