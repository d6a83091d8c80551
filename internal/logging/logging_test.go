package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.verbose, &buf)

			logger.WithField("plugin", "go").Debug("fetching")
			logger.Warn("careful")

			out := buf.String()
			if got := strings.Contains(out, "fetching"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v: %q", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "careful") {
				t.Errorf("warning missing from output: %q", out)
			}
		})
	}
}
