// Package mock provides a mock ASR engine for testing the validation
// pipeline without real speech models.
package mock

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// Engine implements asr.Engine with canned transcripts keyed by audio
// filename. Unknown files and configured failures produce errors, which lets
// tests exercise the error branch of the result-file format.
type Engine struct {
	name string

	mu       sync.Mutex
	scripts  map[string]string
	failures map[string]string
	calls    int
}

// New creates a mock engine returning the given transcript per audio
// filename (base name, extension included).
func New(name string, scripts map[string]string) *Engine {
	return &Engine{
		name:     name,
		scripts:  scripts,
		failures: make(map[string]string),
	}
}

// FailWith makes Transcribe return an error for the given audio filename.
func (e *Engine) FailWith(filename, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[filename] = msg
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return e.name
}

// Calls returns the number of Transcribe invocations so far.
func (e *Engine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Transcribe returns the canned transcript for the audio file.
func (e *Engine) Transcribe(_ context.Context, audioPath string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++

	name := filepath.Base(audioPath)
	if msg, ok := e.failures[name]; ok {
		return "", fmt.Errorf("%s: %s", e.name, msg)
	}
	text, ok := e.scripts[name]
	if !ok {
		return "", fmt.Errorf("%s: no scripted transcript for %s", e.name, name)
	}
	return text, nil
}
