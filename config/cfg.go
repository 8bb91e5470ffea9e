package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"pbe/assets"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	EditorConfig struct {
		StorePath  string       `yaml:"store_path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
		ProjectRef string       `yaml:"project_ref"`
		APIToken   SecretString `yaml:"api_token,omitempty"`
	}

	AssetsConfig struct {
		MaxUploadBytes int64 `yaml:"max_upload_bytes" validate:"min=0"`
		MaxWidth       int   `yaml:"max_width" validate:"min=0"`
		MaxHeight      int   `yaml:"max_height" validate:"min=0"`
		JPEGQuality    int   `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
	}

	ExportConfig struct {
		NameTemplate          string `yaml:"name_template"`
		FixZip                bool   `yaml:"fix_zip"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Editor    EditorConfig   `yaml:"editor"`
		Assets    AssetsConfig   `yaml:"assets"`
		Export    ExportConfig   `yaml:"export"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	ExportNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(ExportNameTemplateFieldName)),
)

// Limits maps the assets section onto the upload pipeline bounds.
func (c *AssetsConfig) Limits() assets.Limits {
	return assets.Limits{
		MaxBytes:    c.MaxUploadBytes,
		MaxWidth:    c.MaxWidth,
		MaxHeight:   c.MaxHeight,
		JPEGQuality: c.JPEGQuality,
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
