package cmd

import "testing"

func TestDetectExportFormat(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "csv extension", path: "./pontos.csv", want: "csv"},
		{name: "xlsx extension", path: "./pontos.xlsx", want: "excel"},
		{name: "xls extension", path: "./pontos.xls", want: "excel"},
		{name: "uppercase extension", path: "./PONTOS.CSV", want: "csv"},
		{name: "unknown defaults to csv", path: "./pontos.out", want: "csv"},
		{name: "no extension defaults to csv", path: "./pontos", want: "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectExportFormat(tt.path); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
