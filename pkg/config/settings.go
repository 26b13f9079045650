package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix scopes environment overrides, e.g. SPACKLE_ENGINE=hcl
const EnvPrefix = "SPACKLE_"

// Settings tunes the engine. They never change what a manifest means.
type Settings struct {
	// TemplateExt marks files whose content is rendered
	TemplateExt string `koanf:"template_ext"`

	// ManifestName is the manifest file name inside a project directory
	ManifestName string `koanf:"manifest_name"`

	// Engine selects the template syntax: "gonja" or "hcl"
	Engine string `koanf:"engine"`

	// Parallelism bounds concurrent file renders
	Parallelism int `koanf:"parallelism"`

	// FailOnHookError turns any failed hook into a failed fill
	FailOnHookError bool `koanf:"fail_on_hook_error"`
}

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	return Settings{
		TemplateExt:  ".j2",
		ManifestName: DefaultManifestName,
		Engine:       "gonja",
		Parallelism:  runtime.NumCPU(),
	}
}

func defaultsMap() map[string]interface{} {
	d := DefaultSettings()
	return map[string]interface{}{
		"template_ext":       d.TemplateExt,
		"manifest_name":      d.ManifestName,
		"engine":             d.Engine,
		"parallelism":        d.Parallelism,
		"fail_on_hook_error": d.FailOnHookError,
	}
}

// UserSettingsPath is where the user settings file is looked up
func UserSettingsPath() string {
	return filepath.Join(xdg.ConfigHome, logging.AppDirName, "config.toml")
}

// LoadSettings merges defaults, the settings file and SPACKLE_* environment
// variables, in that order. An empty path means UserSettingsPath; a missing
// file at the default location is not an error.
func LoadSettings(path string) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default settings")
	}

	explicit := path != ""
	if !explicit {
		path = UserSettingsPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Settings{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load settings from %s", path)
		}
		log.Debug().Str("path", path).Msg("Settings file loaded")
	} else if explicit || !stderrors.Is(err, os.ErrNotExist) {
		return Settings{}, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read settings file %s", path)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to decode settings")
	}

	return s.normalize(), nil
}

func (s Settings) normalize() Settings {
	if s.TemplateExt != "" && !strings.HasPrefix(s.TemplateExt, ".") {
		s.TemplateExt = "." + s.TemplateExt
	}
	if s.TemplateExt == "" {
		s.TemplateExt = DefaultSettings().TemplateExt
	}
	if s.ManifestName == "" {
		s.ManifestName = DefaultManifestName
	}
	if s.Engine == "" {
		s.Engine = DefaultSettings().Engine
	}
	if s.Parallelism < 1 {
		s.Parallelism = 1
	}
	return s
}
