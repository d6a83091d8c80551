package errors

import (
	"errors"
	"testing"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unknown plugins", &UnknownPluginsError{Names: []string{"a", "b"}}, ErrUnknownPlugin},
		{"hash mismatch", &HashMismatchError{File: "x.md", Expected: "abc", Actual: "def"}, ErrHashMismatch},
		{"plugin error", NewPluginError("x", "download", ErrFetchFailed), ErrFetchFailed},
		{"path error", NewPathError("/tmp/x", "write", ErrHashMismatch), ErrHashMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&UnknownPluginsError{Names: []string{"a", "b"}}, "plugins not found: a, b"},
		{&HashMismatchError{File: "x.md", Expected: "abc", Actual: "def"}, "hash mismatch for x.md. Expected abc, got def"},
		{NewPluginError("terraform", "download", errors.New("boom")), "plugin terraform: download: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
