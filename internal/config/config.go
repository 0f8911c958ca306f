// Package config loads user preferences from ~/.posterrc.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"poster/internal/document"
	"poster/internal/export"
)

// FileName is the config file looked up in the home directory.
const FileName = ".posterrc"

type Config struct {
	SaveDirectory string  `toml:"save_directory"`
	Canvas        string  `toml:"canvas"`
	ExportFormat  string  `toml:"export_format"`
	ExportScale   float64 `toml:"export_scale"`
	Confirmations bool    `toml:"confirmations"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Canvas:        document.Presets[0].Name,
		ExportFormat:  string(export.FormatPNG),
		ExportScale:   export.DefaultScale,
		Confirmations: true,
	}
}

// Load reads ~/.posterrc. A missing file or home directory yields Default.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(filepath.Join(home, FileName), home)
}

// LoadFile reads the TOML file at path; home expands a leading ~ in
// save_directory. Unknown keys are rejected so typos surface.
func LoadFile(path, home string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("read %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.normalize(home); err != nil {
		return Default(), fmt.Errorf("read %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize(home string) error {
	if v := c.SaveDirectory; v != "" {
		if strings.HasPrefix(v, "~") && home != "" {
			v = filepath.Join(home, strings.TrimPrefix(v, "~"))
		}
		if !filepath.IsAbs(v) {
			if abs, err := filepath.Abs(v); err == nil {
				v = abs
			}
		}
		c.SaveDirectory = v
	}
	if _, ok := document.PresetByName(c.Canvas); !ok {
		return fmt.Errorf("unknown canvas preset %q", c.Canvas)
	}
	f, err := export.ParseFormat(c.ExportFormat)
	if err != nil {
		return err
	}
	c.ExportFormat = string(f)
	if c.ExportScale <= 0 {
		c.ExportScale = export.DefaultScale
	}
	return nil
}

// CanvasSize resolves the configured preset.
func (c *Config) CanvasSize() document.Size {
	if p, ok := document.PresetByName(c.Canvas); ok {
		return p.Size
	}
	return document.DefaultSize
}

// Format is the configured export format.
func (c *Config) Format() export.Format {
	f, err := export.ParseFormat(c.ExportFormat)
	if err != nil {
		return export.FormatPNG
	}
	return f
}

// SavePath places filename in SaveDirectory, or leaves it relative to the
// working directory when none is configured.
func (c *Config) SavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	return filepath.Join(c.SaveDirectory, filename)
}
