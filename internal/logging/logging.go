package logging

import (
	"context"
	"maps"
)

// Logger defines the leveled logging contract used across the application.
// It mirrors the interface exposed by github.com/goliatone/go-logger so the
// package can be plugged in without additional adapters.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider exposes named loggers. Implementations can return the same
// instance for every name or scope loggers per module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for attaching persistent structured
// fields to a logger.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

const (
	rootModule     = "polyblog"
	contentModule  = "polyblog.content"
	httpModule     = "polyblog.http"
	authModule     = "polyblog.auth"
	markdownModule = "polyblog.markdown"
	importerModule = "polyblog.importer"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider LoggerProvider, module string) Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for the content service.
func ContentLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, contentModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP API.
func HTTPLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, httpModule)
}

// AuthLogger returns the logger namespace reserved for token handling.
func AuthLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, authModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown rendering.
func MarkdownLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, markdownModule)
}

// ImporterLogger returns the logger namespace reserved for content imports.
func ImporterLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, importerModule)
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) Logger {
	return n
}
