package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"namespotter.com/namespotter-go/internal/cv"
	"namespotter.com/namespotter-go/internal/scroll"
)

// Config holds all user-tunable settings
type Config struct {
	// Monitored region, in screen coordinates
	Region cv.Region

	// Scanning
	ScanIntervalSeconds int
	AutoScan            bool

	// Change detection
	HashThreshold int

	// Scroll detection
	ScrollThreshold      int
	CorrelationThreshold float64

	// OCR
	OCRMinConfidence float64
	OCRLanguage      string

	// Storage
	DatabasePath string

	// Logging
	LogLevel string
}

// NewDefaultConfig creates a config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Region:               cv.Region{X: 0, Y: 0, Width: 800, Height: 600},
		ScanIntervalSeconds:  3,
		AutoScan:             false,
		HashThreshold:        cv.DefaultHashThreshold,
		ScrollThreshold:      scroll.DefaultScrollThreshold,
		CorrelationThreshold: scroll.DefaultCorrelationThreshold,
		OCRMinConfidence:     60.0,
		OCRLanguage:          "eng",
		DatabasePath:         "duplicate_names.db",
		LogLevel:             "INFO",
	}
}

// Validate clamps out-of-range values to their supported bounds
func (c *Config) Validate() error {
	if !c.Region.Valid() {
		return fmt.Errorf("invalid region dimensions: %dx%d", c.Region.Width, c.Region.Height)
	}
	if c.ScanIntervalSeconds < 1 {
		c.ScanIntervalSeconds = 1
	}
	if c.ScanIntervalSeconds > 60 {
		c.ScanIntervalSeconds = 60
	}
	if c.HashThreshold <= 0 {
		c.HashThreshold = cv.DefaultHashThreshold
	}
	if c.ScrollThreshold <= 0 {
		c.ScrollThreshold = scroll.DefaultScrollThreshold
	}
	if c.CorrelationThreshold <= 0 || c.CorrelationThreshold > 1 {
		c.CorrelationThreshold = scroll.DefaultCorrelationThreshold
	}
	if c.OCRMinConfidence <= 0 || c.OCRMinConfidence > 100 {
		c.OCRMinConfidence = 60.0
	}
	return nil
}

// LoadFromINI loads configuration from a settings file
func LoadFromINI(path string) (*Config, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	section := cfg.Section("Settings")
	defaults := NewDefaultConfig()

	config := &Config{
		Region: cv.Region{
			X:      section.Key("regionX").MustInt(defaults.Region.X),
			Y:      section.Key("regionY").MustInt(defaults.Region.Y),
			Width:  section.Key("regionWidth").MustInt(defaults.Region.Width),
			Height: section.Key("regionHeight").MustInt(defaults.Region.Height),
		},
		ScanIntervalSeconds:  section.Key("scanInterval").MustInt(defaults.ScanIntervalSeconds),
		AutoScan:             section.Key("autoScan").MustBool(defaults.AutoScan),
		HashThreshold:        section.Key("hashThreshold").MustInt(defaults.HashThreshold),
		ScrollThreshold:      section.Key("scrollThreshold").MustInt(defaults.ScrollThreshold),
		CorrelationThreshold: section.Key("correlationThreshold").MustFloat64(defaults.CorrelationThreshold),
		OCRMinConfidence:     section.Key("ocrMinConfidence").MustFloat64(defaults.OCRMinConfidence),
		OCRLanguage:          section.Key("ocrLanguage").MustString(defaults.OCRLanguage),
		DatabasePath:         section.Key("databasePath").MustString(defaults.DatabasePath),
		LogLevel:             section.Key("logLevel").MustString(defaults.LogLevel),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveToINI saves configuration to a settings file
func SaveToINI(config *Config, path string) error {
	cfg := ini.Empty()
	section := cfg.Section("Settings")

	section.Key("regionX").SetValue(fmt.Sprintf("%d", config.Region.X))
	section.Key("regionY").SetValue(fmt.Sprintf("%d", config.Region.Y))
	section.Key("regionWidth").SetValue(fmt.Sprintf("%d", config.Region.Width))
	section.Key("regionHeight").SetValue(fmt.Sprintf("%d", config.Region.Height))
	section.Key("scanInterval").SetValue(fmt.Sprintf("%d", config.ScanIntervalSeconds))
	section.Key("autoScan").SetValue(fmt.Sprintf("%t", config.AutoScan))
	section.Key("hashThreshold").SetValue(fmt.Sprintf("%d", config.HashThreshold))
	section.Key("scrollThreshold").SetValue(fmt.Sprintf("%d", config.ScrollThreshold))
	section.Key("correlationThreshold").SetValue(fmt.Sprintf("%g", config.CorrelationThreshold))
	section.Key("ocrMinConfidence").SetValue(fmt.Sprintf("%g", config.OCRMinConfidence))
	section.Key("ocrLanguage").SetValue(config.OCRLanguage)
	section.Key("databasePath").SetValue(config.DatabasePath)
	section.Key("logLevel").SetValue(config.LogLevel)

	return cfg.SaveTo(path)
}
