package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted by Resolve.
const (
	EnvConfig    = "FUR_CONFIG"
	EnvDir       = "FUR_DIR"
	EnvOverwrite = "FUR_OVERWRITE"
	EnvLogLevel  = "FUR_LOG_LEVEL"
	EnvNoColor   = "NO_COLOR"
)

// Overrides are values given on the command line. Empty fields are unset.
type Overrides struct {
	ConfigPath string
	Root       string
	Overwrite  string
	LogLevel   string
	NoColor    bool
}

// Settings is the fully resolved configuration of one invocation.
type Settings struct {
	Root         string
	Overwrite    OverwritePolicy
	LogLevel     string
	PreviewWidth int
	TimeFormat   string
	Color        bool
	Relative     bool
}

// LoadDotEnv loads variables from the given .env files (default ./.env)
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ConfigPath returns the configuration file to use: the flag, then
// FUR_CONFIG, then ~/.fur/config.yaml.
func ConfigPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env, nil
	}
	return DefaultPath()
}

// Resolve builds Settings with precedence:
// CLI flags > Environment variables > Config file > Defaults
func Resolve(o Overrides) (Settings, error) {
	storeSection := NewStoreSection()
	if s := GetStore(); s != nil {
		storeSection = s
	}
	display := NewDisplaySection()
	if d := GetDisplay(); d != nil {
		display = d
	}
	logging := NewLoggingSection()
	if l := GetLogging(); l != nil {
		logging = l
	}

	var out Settings
	out.Root, out.Overwrite = storeSection.Settings()
	out.LogLevel = logging.GetLevel()
	out.PreviewWidth, out.TimeFormat, out.Color, out.Relative = display.Settings()

	root := firstNonEmpty(o.Root, os.Getenv(EnvDir))
	if root != "" {
		out.Root = root
	}

	if policy := firstNonEmpty(o.Overwrite, os.Getenv(EnvOverwrite)); policy != "" {
		p, err := ParseOverwritePolicy(strings.ToLower(policy))
		if err != nil {
			return Settings{}, err
		}
		out.Overwrite = p
	}

	if level := firstNonEmpty(o.LogLevel, os.Getenv(EnvLogLevel)); level != "" {
		level = strings.ToLower(level)
		if err := validateLevel(level); err != nil {
			return Settings{}, err
		}
		out.LogLevel = level
	}

	if o.NoColor || os.Getenv(EnvNoColor) != "" {
		out.Color = false
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
