package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyServerPort            = "server.port"
	KeyStorageDBPath         = "storage.db_path"
	KeyMediaDir              = "media.dir"
	KeyUploadMaxSizeMB       = "upload.max_size_mb"
	KeyUploadImageExtensions = "upload.image_extensions"
	KeyUploadSheetExtensions = "upload.spreadsheet_extensions"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Media   MediaConfig   `mapstructure:"media"`
	Upload  UploadConfig  `mapstructure:"upload"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type MediaConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

type UploadConfig struct {
	MaxSizeMB             int64    `mapstructure:"max_size_mb" validate:"required,min=1"`
	ImageExtensions       []string `mapstructure:"image_extensions"`
	SpreadsheetExtensions []string `mapstructure:"spreadsheet_extensions"`
}

// MaxSizeBytes is the upload limit as bytes for http.MaxBytesReader.
func (u UploadConfig) MaxSizeBytes() int64 {
	return u.MaxSizeMB << 20
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# gopontos configuration
server:
  port: 8080

storage:
  db_path: "./gopontos.db"

media:
  dir: "./media"

upload:
  max_size_mb: 32
  image_extensions: [".jpg", ".jpeg", ".png", ".webp"]
  spreadsheet_extensions: [".xlsx", ".xlsm", ".xls", ".csv"]
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateExtensions("upload.image_extensions", cfg.Upload.ImageExtensions); err != nil {
		return nil, err
	}
	if err := validateExtensions("upload.spreadsheet_extensions", cfg.Upload.SpreadsheetExtensions); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyStorageDBPath, "./gopontos.db")
	v.SetDefault(KeyMediaDir, "./media")
	v.SetDefault(KeyUploadMaxSizeMB, 32)
	v.SetDefault(KeyUploadImageExtensions, []string{".jpg", ".jpeg", ".png", ".webp"})
	v.SetDefault(KeyUploadSheetExtensions, []string{".xlsx", ".xlsm", ".xls", ".csv"})
}

func validateExtensions(key string, extensions []string) error {
	if len(extensions) == 0 {
		return fmt.Errorf("validation failed: %s must list at least one extension", key)
	}
	seen := make(map[string]struct{}, len(extensions))
	for i, ext := range extensions {
		value := strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(value, ".") || len(value) < 2 {
			return fmt.Errorf("validation failed: %s[%d] %q must start with a dot", key, i, ext)
		}
		if _, exists := seen[value]; exists {
			return fmt.Errorf("validation failed: duplicate extension %q in %s", ext, key)
		}
		seen[value] = struct{}{}
	}
	return nil
}
