package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 3, 4, 18, 22, 7, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "palmaplogs",
			appName: "palmap",
			want:    filepath.Join("palmaplogs", "palmap.20260304_182207.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./palmaplogs",
			appName: "palmap",
			want:    filepath.Join(".", "palmaplogs", "palmap.20260304_182207.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "palmap"),
			appName: "palmap",
			want:    filepath.Join("/var", "log", "palmap", "palmap.20260304_182207.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.appName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}
