package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_Defaults(t *testing.T) {
	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("validate example config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if cfg.Storage.DBPath != "./gopontos.db" {
		t.Fatalf("unexpected db path: %s", cfg.Storage.DBPath)
	}
	if cfg.Media.Dir != "./media" {
		t.Fatalf("unexpected media dir: %s", cfg.Media.Dir)
	}
	if cfg.Upload.MaxSizeBytes() != 32<<20 {
		t.Fatalf("unexpected upload limit: %d", cfg.Upload.MaxSizeBytes())
	}
	if len(cfg.Upload.SpreadsheetExtensions) != 4 {
		t.Fatalf("unexpected spreadsheet extensions: %v", cfg.Upload.SpreadsheetExtensions)
	}
}

func TestValidateYAMLContent_Overrides(t *testing.T) {
	content := `
server:
  port: 9090
storage:
  db_path: "/tmp/test.db"
upload:
  max_size_mb: 8
`
	cfg, err := ValidateYAMLContent([]byte(content))
	if err != nil {
		t.Fatalf("validate config: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Storage.DBPath != "/tmp/test.db" || cfg.Upload.MaxSizeMB != 8 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateYAMLContent_InvalidPort(t *testing.T) {
	content := `
server:
  port: 70000
`
	if _, err := ValidateYAMLContent([]byte(content)); err == nil {
		t.Fatalf("expected validation error for port out of range")
	}
}

func TestValidateYAMLContent_BadExtensions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name: "missing dot",
			content: `
upload:
  image_extensions: ["jpg"]
`,
			errPart: "must start with a dot",
		},
		{
			name: "duplicate",
			content: `
upload:
  image_extensions: [".jpg", ".JPG"]
`,
			errPart: "duplicate extension",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.errPart)
			}
		})
	}
}
