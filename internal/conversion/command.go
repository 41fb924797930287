package conversion

import (
	"context"

	"go.uber.org/zap"

	"github.com/Cyberx9901/arch-repo-management/internal/config"
	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/operations"
)

const (
	compressionFlagNameConstant        = "compression"
	compressionFlagDescriptionConstant = "Compression of the repository database"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current conversion configuration.
type ConfigurationProvider func() Configuration

// SettingsProvider returns the current repository management settings.
type SettingsProvider func() config.Settings

// Converter performs the conversions behind db2json and json2db.
type Converter interface {
	DumpDBToJSONFiles(executionContext context.Context, inputPath string, outputPath string, compression defaults.Compression) error
	CreateDBFromJSONFiles(executionContext context.Context, inputPath string, outputPath string, dbType defaults.RepoDbType, compression defaults.Compression) error
}

// ConverterResolver creates the Converter used by a command.
type ConverterResolver func(logger *zap.Logger) Converter

// DefaultConverterResolver builds an operations.Service.
func DefaultConverterResolver(logger *zap.Logger) Converter {
	return operations.NewService(logger, nil, 0)
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveConfiguration(provider ConfigurationProvider) Configuration {
	configuration := DefaultConfiguration()
	if provider != nil {
		configuration = provider()
	}
	return configuration.Sanitize()
}

func resolveConverter(resolver ConverterResolver, logger *zap.Logger) Converter {
	if resolver == nil {
		return DefaultConverterResolver(logger)
	}
	return resolver(logger)
}
