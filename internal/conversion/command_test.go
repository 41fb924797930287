package conversion_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Cyberx9901/arch-repo-management/internal/config"
	"github.com/Cyberx9901/arch-repo-management/internal/conversion"
	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
)

const (
	databaseFileConstant        = "/srv/repos/core.db.tar.gz"
	outputDirectoryConstant     = "/srv/json"
	configuredDirectoryConstant = "/srv/configured"
	converterFailureConstant    = "conversion failed"
	homeDirectoryConstant       = "/home/packager"
)

type recordingConverter struct {
	dumpCalls   []conversion.DB2JSONOptions
	createCalls []conversion.JSON2DBOptions
	failure     error
}

func (converter *recordingConverter) DumpDBToJSONFiles(_ context.Context, inputPath string, outputPath string, compression defaults.Compression) error {
	converter.dumpCalls = append(converter.dumpCalls, conversion.DB2JSONOptions{DatabaseFile: inputPath, OutputDirectory: outputPath, Compression: compression})
	return converter.failure
}

func (converter *recordingConverter) CreateDBFromJSONFiles(_ context.Context, inputPath string, outputPath string, dbType defaults.RepoDbType, compression defaults.Compression) error {
	converter.createCalls = append(converter.createCalls, conversion.JSON2DBOptions{InputDirectory: inputPath, DatabaseFile: outputPath, DatabaseType: dbType, Compression: compression})
	return converter.failure
}

func (converter *recordingConverter) resolve(_ *zap.Logger) conversion.Converter {
	return converter
}

func executeCommand(testInstance *testing.T, command *cobra.Command, arguments []string) (string, error) {
	testInstance.Helper()
	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(io.Discard)
	command.SetArgs(arguments)
	executionError := command.ExecuteContext(context.Background())
	return output.String(), executionError
}

func TestDB2JSONCommandResolvesOptions(testInstance *testing.T) {
	testInstance.Setenv("HOME", homeDirectoryConstant)

	testCases := []struct {
		name            string
		configuration   conversion.Configuration
		arguments       []string
		expectedOptions conversion.DB2JSONOptions
		expectError     bool
	}{
		{
			name:            "defaults",
			arguments:       []string{databaseFileConstant},
			expectedOptions: conversion.DB2JSONOptions{DatabaseFile: databaseFileConstant, OutputDirectory: ".", Compression: defaults.CompressionGzip},
		},
		{
			name: "configuration_values",
			configuration: conversion.Configuration{DB2JSON: conversion.DB2JSONConfiguration{
				Compression:     defaults.CompressionZstd,
				OutputDirectory: configuredDirectoryConstant,
			}},
			arguments:       []string{databaseFileConstant},
			expectedOptions: conversion.DB2JSONOptions{DatabaseFile: databaseFileConstant, OutputDirectory: configuredDirectoryConstant, Compression: defaults.CompressionZstd},
		},
		{
			name: "configured_output_directory_in_home",
			configuration: conversion.Configuration{DB2JSON: conversion.DB2JSONConfiguration{
				OutputDirectory: "~/json",
			}},
			arguments:       []string{databaseFileConstant},
			expectedOptions: conversion.DB2JSONOptions{DatabaseFile: databaseFileConstant, OutputDirectory: filepath.Join(homeDirectoryConstant, "json"), Compression: defaults.CompressionGzip},
		},
		{
			name: "arguments_and_flags_override_configuration",
			configuration: conversion.Configuration{DB2JSON: conversion.DB2JSONConfiguration{
				Compression:     defaults.CompressionZstd,
				OutputDirectory: configuredDirectoryConstant,
			}},
			arguments:       []string{databaseFileConstant, outputDirectoryConstant, "--compression", "xz"},
			expectedOptions: conversion.DB2JSONOptions{DatabaseFile: databaseFileConstant, OutputDirectory: outputDirectoryConstant, Compression: defaults.CompressionXz},
		},
		{name: "missing_database_argument", arguments: []string{}, expectError: true},
		{name: "too_many_arguments", arguments: []string{"a", "b", "c"}, expectError: true},
		{name: "unsupported_compression", arguments: []string{databaseFileConstant, "--compression", "lz4"}, expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			converter := &recordingConverter{}
			configuration := testCase.configuration
			builder := conversion.DB2JSONCommandBuilder{
				LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
				ConfigurationProvider: func() conversion.Configuration { return configuration },
				ConverterResolver:     converter.resolve,
			}
			command, buildError := builder.Build()
			require.NoError(subTest, buildError)

			_, executionError := executeCommand(subTest, command, testCase.arguments)
			if testCase.expectError {
				require.Error(subTest, executionError)
				require.Empty(subTest, converter.dumpCalls)
				return
			}
			require.NoError(subTest, executionError)
			require.Equal(subTest, []conversion.DB2JSONOptions{testCase.expectedOptions}, converter.dumpCalls)
		})
	}
}

func TestJSON2DBCommandResolvesOptions(testInstance *testing.T) {
	testCases := []struct {
		name            string
		configuration   conversion.Configuration
		arguments       []string
		expectedOptions conversion.JSON2DBOptions
		expectError     bool
	}{
		{
			name:      "defaults",
			arguments: []string{outputDirectoryConstant, databaseFileConstant},
			expectedOptions: conversion.JSON2DBOptions{
				InputDirectory: outputDirectoryConstant,
				DatabaseFile:   databaseFileConstant,
				DatabaseType:   defaults.RepoDbTypeDefault,
				Compression:    defaults.CompressionGzip,
			},
		},
		{
			name:      "files_flag",
			arguments: []string{outputDirectoryConstant, databaseFileConstant, "--files", "--compression", "zst"},
			expectedOptions: conversion.JSON2DBOptions{
				InputDirectory: outputDirectoryConstant,
				DatabaseFile:   databaseFileConstant,
				DatabaseType:   defaults.RepoDbTypeFiles,
				Compression:    defaults.CompressionZstd,
			},
		},
		{
			name: "flag_disables_configured_files_database",
			configuration: conversion.Configuration{JSON2DB: conversion.JSON2DBConfiguration{
				Compression:  defaults.CompressionNone,
				DatabaseType: defaults.RepoDbTypeFiles,
			}},
			arguments: []string{outputDirectoryConstant, databaseFileConstant, "--files=false"},
			expectedOptions: conversion.JSON2DBOptions{
				InputDirectory: outputDirectoryConstant,
				DatabaseFile:   databaseFileConstant,
				DatabaseType:   defaults.RepoDbTypeDefault,
				Compression:    defaults.CompressionNone,
			},
		},
		{name: "missing_database_argument", arguments: []string{outputDirectoryConstant}, expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			converter := &recordingConverter{}
			configuration := testCase.configuration
			builder := conversion.JSON2DBCommandBuilder{
				ConfigurationProvider: func() conversion.Configuration { return configuration },
				ConverterResolver:     converter.resolve,
			}
			command, buildError := builder.Build()
			require.NoError(subTest, buildError)

			_, executionError := executeCommand(subTest, command, testCase.arguments)
			if testCase.expectError {
				require.Error(subTest, executionError)
				require.Empty(subTest, converter.createCalls)
				return
			}
			require.NoError(subTest, executionError)
			require.Equal(subTest, []conversion.JSON2DBOptions{testCase.expectedOptions}, converter.createCalls)
		})
	}
}

func TestCommandsWrapConverterErrors(testInstance *testing.T) {
	converterFailure := errors.New(converterFailureConstant)
	converter := &recordingConverter{failure: converterFailure}

	db2jsonBuilder := conversion.DB2JSONCommandBuilder{ConverterResolver: converter.resolve}
	db2jsonCommand, db2jsonBuildError := db2jsonBuilder.Build()
	require.NoError(testInstance, db2jsonBuildError)
	_, db2jsonError := executeCommand(testInstance, db2jsonCommand, []string{databaseFileConstant})
	require.ErrorIs(testInstance, db2jsonError, converterFailure)

	json2dbBuilder := conversion.JSON2DBCommandBuilder{ConverterResolver: converter.resolve}
	json2dbCommand, json2dbBuildError := json2dbBuilder.Build()
	require.NoError(testInstance, json2dbBuildError)
	_, json2dbError := executeCommand(testInstance, json2dbCommand, []string{outputDirectoryConstant, databaseFileConstant})
	require.ErrorIs(testInstance, json2dbError, converterFailure)
}

func TestDefaultConfigurationValues(testInstance *testing.T) {
	require.Equal(testInstance, map[string]any{
		"tools.db2json.compression": "gz",
		"tools.db2json.output_dir":  ".",
		"tools.json2db.compression": "gz",
		"tools.json2db.db_type":     "default",
	}, conversion.DefaultConfigurationValues("tools"))
}

func TestSettingsCommand(testInstance *testing.T) {
	root := testInstance.TempDir()
	for _, name := range []string{"management", "package_pool", "source_pool", "repos", "sources"} {
		require.NoError(testInstance, os.MkdirAll(filepath.Join(root, name), 0o755))
	}
	validSettings := config.Settings{
		Architecture:    "x86_64",
		ManagementRepo:  &config.ManagementRepo{Directory: filepath.Join(root, "management"), URL: "https://parent.foo.bar"},
		Repositories:    []config.PackageRepo{{Name: "core", Testing: "core-testing"}},
		PackagePool:     filepath.Join(root, "package_pool"),
		SourcePool:      filepath.Join(root, "source_pool"),
		PackageRepoBase: filepath.Join(root, "repos"),
		SourceRepoBase:  filepath.Join(root, "sources"),
	}

	testInstance.Run("prints_resolved_settings", func(subTest *testing.T) {
		builder := conversion.SettingsCommandBuilder{SettingsProvider: func() config.Settings { return validSettings }}
		command, buildError := builder.Build()
		require.NoError(subTest, buildError)

		output, executionError := executeCommand(subTest, command, []string{})
		require.NoError(subTest, executionError)

		var document conversion.SettingsDocument
		require.NoError(subTest, yaml.Unmarshal([]byte(output), &document))
		require.Equal(subTest, filepath.Join(root, "repos"), document.PackageRepoBase)
		require.Len(subTest, document.Repositories, 1)
		require.Equal(subTest, "core", document.Repositories[0].Name)
		require.Equal(subTest, filepath.Join(root, "repos", "core-testing", "x86_64"), document.Repositories[0].TestingDirectory)
		require.Equal(subTest, "https://parent.foo.bar", document.Repositories[0].ManagementRepo.URL)
	})

	testInstance.Run("rejects_invalid_settings", func(subTest *testing.T) {
		invalidSettings := validSettings
		invalidSettings.Repositories = nil
		builder := conversion.SettingsCommandBuilder{SettingsProvider: func() config.Settings { return invalidSettings }}
		command, buildError := builder.Build()
		require.NoError(subTest, buildError)

		output, executionError := executeCommand(subTest, command, []string{})
		require.Error(subTest, executionError)
		require.Empty(subTest, output)
	})
}
