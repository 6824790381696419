package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix   = "NUTRID_"
	DefaultFile = "nutrid.yaml"

	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	DataPath              string        `koanf:"dataPath" yaml:"dataPath"`
	Backend               string        `koanf:"backend" yaml:"backend"`
	ConflictTable         string        `koanf:"conflictTable" yaml:"conflictTable"`
	WatchConflictTable    bool          `koanf:"watchConflictTable" yaml:"watchConflictTable"`
	User                  string        `koanf:"user" yaml:"user"`
	DesktopNotifications  bool          `koanf:"desktopNotifications" yaml:"desktopNotifications"`
	SchedulerBuffer       int           `koanf:"schedulerBuffer" yaml:"schedulerBuffer"`
	TickInterval          time.Duration `koanf:"tickInterval" yaml:"tickInterval"`
	SnoozeMinutes         int           `koanf:"snoozeMinutes" yaml:"snoozeMinutes"`
	ConflictWindowMinutes int           `koanf:"conflictWindowMinutes" yaml:"conflictWindowMinutes"`
	Log                   Log           `koanf:"log" yaml:"log"`
}

type Log struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
	File   string `koanf:"file" yaml:"file"`
}

func Default() Config {
	return Config{
		DataPath:              "alarms_data.json",
		Backend:               BackendJSON,
		WatchConflictTable:    true,
		SchedulerBuffer:       64,
		TickInterval:          time.Second,
		SnoozeMinutes:         30,
		ConflictWindowMinutes: 2,
		Log: Log{
			Level:  "info",
			Format: "text",
			File:   "nutrid.log",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("config: dataPath is required")
	}
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.SchedulerBuffer <= 0 {
		return errors.New("config: schedulerBuffer must be positive")
	}
	// every wall-clock minute must see at least one tick
	if c.TickInterval <= 0 || c.TickInterval >= time.Minute {
		return fmt.Errorf("config: tickInterval %s must be between 0 and 1m", c.TickInterval)
	}
	if c.SnoozeMinutes <= 0 || c.ConflictWindowMinutes < 0 {
		return errors.New("config: snoozeMinutes must be positive and conflictWindowMinutes not negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// Load layers the defaults, the YAML file at path and NUTRID_* environment
// variables, in that order. An empty path reads nutrid.yaml from the working
// directory when it exists.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return Config{}, fmt.Errorf("config: encode defaults: %w", err)
	}
	if err := k.Load(rawBytes(defaults), kyaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path == "" {
		if _, statErr := os.Stat(DefaultFile); statErr == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return canonicalizeEnvKey(strings.TrimPrefix(key, EnvPrefix), existing), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// rawBytes feeds an in-memory document to koanf.
type rawBytes []byte

func (r rawBytes) ReadBytes() ([]byte, error) {
	return r, nil
}

func (r rawBytes) Read() (map[string]any, error) {
	return nil, errors.New("config: raw bytes provider needs a parser")
}

// canonicalizeEnvKey maps an env suffix such as LOG_LEVEL or
// DESKTOP_NOTIFICATIONS onto the existing camelCase key path. Consecutive
// segments are joined while they spell an existing key.
func canonicalizeEnvKey(raw string, existing map[string]any) string {
	segments := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool { return r == '_' })
	canonical := make([]string, 0, len(segments))
	current := existing

	for i := 0; i < len(segments); {
		matched, next, width := matchSegments(current, segments[i:])
		if width == 0 {
			canonical = append(canonical, segments[i])
			current = nil
			i++
			continue
		}
		canonical = append(canonical, matched)
		current = next
		i += width
	}
	return strings.Join(canonical, ".")
}

// matchSegments finds the longest run of leading segments naming a key in
// current.
func matchSegments(current map[string]any, segments []string) (string, map[string]any, int) {
	if len(current) == 0 {
		return "", nil, 0
	}
	for width := len(segments); width > 0; width-- {
		needle := normalizeToken(strings.Join(segments[:width], ""))
		for key, value := range current {
			if normalizeToken(key) != needle {
				continue
			}
			child, _ := value.(map[string]any)
			return key, child, width
		}
	}
	return "", nil, 0
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
