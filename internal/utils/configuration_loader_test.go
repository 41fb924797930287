package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTREPOMANAGEMENT"
	testConfigurationTypeConstant     = "toml"
	testLogLevelKeyConstant           = "common.log_level"
	testCompressionKeyConstant        = "tools.db2json.compression"
	testConfigFileNameConstant        = "config.toml"
	testOverrideDirectoryNameConstant = "config.d"
	testEmbeddedConfigurationConstant = "[common]\nlog_level = \"warn\"\n"
	testFileConfigurationConstant     = "[common]\nlog_level = \"debug\"\n\n[tools.db2json]\ncompression = \"zst\"\n"
	testFirstOverrideConstant         = "[common]\nlog_level = \"error\"\n"
	testSecondOverrideConstant        = "[common]\nlog_level = \"info\"\n"
	testFilePermissionsConstant       = 0o644
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
	Tools  configurationToolsFixture  `mapstructure:"tools"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type configurationToolsFixture struct {
	DB2JSON configurationConversionFixture `mapstructure:"db2json"`
}

type configurationConversionFixture struct {
	Compression defaults.Compression `mapstructure:"compression"`
}

func writeConfigurationFile(testInstance *testing.T, path string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(testInstance, os.WriteFile(path, []byte(content), testFilePermissionsConstant))
}

func TestConfigurationLoaderPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embedded            string
		fileContent         string
		overrides           map[string]string
		environmentLogLevel string
		expectedLogLevel    string
		expectedCompression defaults.Compression
		expectedFileCount   int
	}{
		{
			name:                "defaults_only",
			expectedLogLevel:    "info",
			expectedCompression: defaults.CompressionGzip,
		},
		{
			name:                "embedded_overrides_defaults",
			embedded:            testEmbeddedConfigurationConstant,
			expectedLogLevel:    "warn",
			expectedCompression: defaults.CompressionGzip,
		},
		{
			name:                "file_overrides_embedded",
			embedded:            testEmbeddedConfigurationConstant,
			fileContent:         testFileConfigurationConstant,
			expectedLogLevel:    "debug",
			expectedCompression: defaults.CompressionZstd,
			expectedFileCount:   1,
		},
		{
			name:        "overrides_merge_in_lexical_order",
			fileContent: testFileConfigurationConstant,
			overrides: map[string]string{
				"20-second.toml": testSecondOverrideConstant,
				"10-first.toml":  testFirstOverrideConstant,
				"30-ignored.txt": testFirstOverrideConstant,
			},
			expectedLogLevel:    "info",
			expectedCompression: defaults.CompressionZstd,
			expectedFileCount:   3,
		},
		{
			name:                "environment_overrides_files",
			fileContent:         testFileConfigurationConstant,
			environmentLogLevel: "error",
			expectedLogLevel:    "error",
			expectedCompression: defaults.CompressionZstd,
			expectedFileCount:   1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			directory := subTest.TempDir()
			configurationFile := filepath.Join(directory, testConfigFileNameConstant)
			overrideDirectory := filepath.Join(directory, testOverrideDirectoryNameConstant)
			if len(testCase.fileContent) > 0 {
				writeConfigurationFile(subTest, configurationFile, testCase.fileContent)
			}
			for name, content := range testCase.overrides {
				writeConfigurationFile(subTest, filepath.Join(overrideDirectory, name), content)
			}
			if len(testCase.environmentLogLevel) > 0 {
				subTest.Setenv(testEnvironmentPrefixConstant+"_COMMON_LOG_LEVEL", testCase.environmentLogLevel)
			}

			loader := utils.NewConfigurationLoader(testConfigurationTypeConstant, testEnvironmentPrefixConstant, configurationFile, overrideDirectory)
			loader.SetEmbeddedConfiguration([]byte(testCase.embedded))

			var configuration configurationFixture
			loadedConfiguration, loadError := loader.LoadConfiguration(utils.ConfigurationSources{}, map[string]any{
				testLogLevelKeyConstant:    "info",
				testCompressionKeyConstant: string(defaults.CompressionGzip),
			}, &configuration)
			require.NoError(subTest, loadError)
			require.Equal(subTest, testCase.expectedLogLevel, configuration.Common.LogLevel)
			require.Equal(subTest, testCase.expectedCompression, configuration.Tools.DB2JSON.Compression)
			require.Len(subTest, loadedConfiguration.FilesUsed, testCase.expectedFileCount)
		})
	}
}

func TestConfigurationLoaderExplicitSources(testInstance *testing.T) {
	directory := testInstance.TempDir()
	loader := utils.NewConfigurationLoader(testConfigurationTypeConstant, testEnvironmentPrefixConstant, "", "")

	testCases := []struct {
		name        string
		sources     utils.ConfigurationSources
		fileContent string
		expectError bool
	}{
		{name: "missing_configuration_file", sources: utils.ConfigurationSources{ConfigurationFile: filepath.Join(directory, "missing.toml")}, expectError: true},
		{name: "missing_override_directory", sources: utils.ConfigurationSources{OverrideDirectory: filepath.Join(directory, "missing.d")}, expectError: true},
		{name: "unsupported_compression", sources: utils.ConfigurationSources{ConfigurationFile: filepath.Join(directory, "invalid.toml")}, fileContent: "[tools.db2json]\ncompression = \"lz4\"\n", expectError: true},
		{name: "malformed_file", sources: utils.ConfigurationSources{ConfigurationFile: filepath.Join(directory, "malformed.toml")}, fileContent: "[common\n", expectError: true},
		{name: "explicit_file", sources: utils.ConfigurationSources{ConfigurationFile: filepath.Join(directory, "explicit.toml")}, fileContent: testFileConfigurationConstant},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			if len(testCase.fileContent) > 0 {
				writeConfigurationFile(subTest, testCase.sources.ConfigurationFile, testCase.fileContent)
			}

			var configuration configurationFixture
			_, loadError := loader.LoadConfiguration(testCase.sources, nil, &configuration)
			if testCase.expectError {
				require.Error(subTest, loadError)
				return
			}
			require.NoError(subTest, loadError)
			require.Equal(subTest, "debug", configuration.Common.LogLevel)
		})
	}
}
