package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"vocabdiff/internal/charset"
	"vocabdiff/internal/diffview"
	"vocabdiff/internal/vocab"
)

const (
	configDirName  = "vocabdiff"
	configFileName = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. VOCABDIFF_MULTI_CODE.
	EnvPrefix = "VOCABDIFF"
)

const (
	KeyMultiCode        = "multi_code"
	KeyReciprocal       = "reciprocal"
	KeyEncoding         = "encoding"
	KeyFallbackEncoding = "fallback_encoding"
	KeyMinConfidence    = "min_confidence"
	KeySort             = "sort"
	KeyPatchContext     = "patch_context"
	KeyExtensions       = "extensions"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type AppConfig struct {
	MultiCode  bool `mapstructure:"multi_code"`
	Reciprocal bool `mapstructure:"reciprocal"`

	// Encoding forces a charset for every file. Empty means detect.
	Encoding         string `mapstructure:"encoding"`
	FallbackEncoding string `mapstructure:"fallback_encoding"`
	MinConfidence    int    `mapstructure:"min_confidence"`

	Sort         bool `mapstructure:"sort"`
	PatchContext int  `mapstructure:"patch_context"`

	// Extensions filters the file picker. Empty shows every file.
	Extensions []string `mapstructure:"extensions"`
}

func Defaults() AppConfig {
	return AppConfig{
		FallbackEncoding: charset.DefaultFallback,
		MinConfidence:    charset.DefaultMinConfidence,
		PatchContext:     diffview.DefaultPatchContext,
		Extensions:       []string{".txt", ".dict", ".dic", ".gz", ".dz"},
	}
}

// NewViper returns a viper instance with defaults and environment overrides
// registered for every key.
func NewViper() *viper.Viper {
	d := Defaults()
	v := viper.New()
	v.SetDefault(KeyMultiCode, d.MultiCode)
	v.SetDefault(KeyReciprocal, d.Reciprocal)
	v.SetDefault(KeyEncoding, d.Encoding)
	v.SetDefault(KeyFallbackEncoding, d.FallbackEncoding)
	v.SetDefault(KeyMinConfidence, d.MinConfidence)
	v.SetDefault(KeySort, d.Sort)
	v.SetDefault(KeyPatchContext, d.PatchContext)
	v.SetDefault(KeyExtensions, d.Extensions)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

func Load() (AppConfig, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return AppConfig{}, "", err
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

func LoadFromPath(path string) (AppConfig, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return AppConfig{}, err
	}
	return Decode(v)
}

// ReadFile merges the file at path into v. A missing or empty file leaves v
// unchanged. The format follows the extension (yaml, yml, json or toml).
func ReadFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "yaml", "yml", "json", "toml":
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalid, filepath.Ext(path))
	}
	v.SetConfigType(ext)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg.normalize()
}

func (c AppConfig) normalize() (AppConfig, error) {
	c.Encoding = strings.TrimSpace(c.Encoding)
	c.FallbackEncoding = strings.TrimSpace(c.FallbackEncoding)

	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return AppConfig{}, fmt.Errorf("%w: min_confidence %d must be between 0 and 100", ErrInvalid, c.MinConfidence)
	}
	if c.PatchContext < 0 {
		return AppConfig{}, fmt.Errorf("%w: patch_context %d must not be negative", ErrInvalid, c.PatchContext)
	}
	for _, name := range []string{c.Encoding, c.FallbackEncoding} {
		if name == "" {
			continue
		}
		if _, err := charset.Lookup(name); err != nil {
			return AppConfig{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	exts := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	c.Extensions = exts
	return c, nil
}

// LoadOptions maps the config onto loader options.
func (c AppConfig) LoadOptions() vocab.LoadOptions {
	policy := vocab.SingleCode
	if c.MultiCode {
		policy = vocab.MultiCode
	}
	return vocab.LoadOptions{
		Policy:     policy,
		Reciprocal: c.Reciprocal,
		Charset: charset.Options{
			Force:         c.Encoding,
			Fallback:      c.FallbackEncoding,
			MinConfidence: c.MinConfidence,
		},
	}
}

func DefaultPath() (string, error) {
	home, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

func configHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
