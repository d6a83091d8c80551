package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrRegistryUnavailable = errors.New("plugin registry unavailable")
	ErrUnknownPlugin       = errors.New("plugin not found in registry")
	ErrHashMismatch        = errors.New("content hash mismatch")
	ErrFetchFailed         = errors.New("fetch failed")
	ErrNotInitialized      = errors.New("project not initialized: run 'gemini-templates init' first")
)

// PluginError wraps errors with plugin context
type PluginError struct {
	Plugin string
	Op     string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s: %s: %v", e.Plugin, e.Op, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error
func NewPluginError(plugin, op string, err error) *PluginError {
	return &PluginError{Plugin: plugin, Op: op, Err: err}
}

// UnknownPluginsError lists every requested plugin missing from the manifest
type UnknownPluginsError struct {
	Names []string
}

func (e *UnknownPluginsError) Error() string {
	return fmt.Sprintf("plugins not found: %s", strings.Join(e.Names, ", "))
}

func (e *UnknownPluginsError) Unwrap() error {
	return ErrUnknownPlugin
}

// HashMismatchError reports a digest that differs from the declared one
type HashMismatchError struct {
	File     string
	Expected string
	Actual   string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch for %s. Expected %s, got %s", e.File, e.Expected, e.Actual)
}

func (e *HashMismatchError) Unwrap() error {
	return ErrHashMismatch
}

// PathError wraps errors with path context
type PathError struct {
	Path string
	Op   string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new path error
func NewPathError(path, op string, err error) *PathError {
	return &PathError{Path: path, Op: op, Err: err}
}
