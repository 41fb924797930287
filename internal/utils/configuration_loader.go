package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	overridePatternTemplateConstant                 = "*.%s"
	listSeparatorConstant                           = ","
	configurationReadErrorTemplateConstant          = "failed to read configuration %s: %w"
	configurationMergeErrorTemplateConstant         = "failed to merge configuration %s: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	overrideDirectoryErrorTemplateConstant          = "failed to list configuration overrides in %s: %w"
	missingOverrideDirectoryTemplateConstant        = "configuration override directory %s does not exist"
)

// ConfigurationSources selects the configuration file and override directory.
// Empty values fall back to the loader defaults, which may be absent.
type ConfigurationSources struct {
	ConfigurationFile string
	OverrideDirectory string
}

// ConfigurationLoader merges embedded defaults, a configuration file, an
// override directory and environment variables with Viper.
type ConfigurationLoader struct {
	configurationType        string
	environmentPrefix        string
	defaultConfigurationFile string
	defaultOverrideDirectory string
	environmentKeyReplacer   *strings.Replacer
	embeddedConfiguration    []byte
}

// LoadedConfiguration surfaces the configuration files that were merged, in merge order.
type LoadedConfiguration struct {
	FilesUsed []string
}

// NewConfigurationLoader creates a loader for configuration files of configurationType.
func NewConfigurationLoader(configurationType string, environmentPrefix string, defaultConfigurationFile string, defaultOverrideDirectory string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationType:        configurationType,
		environmentPrefix:        environmentPrefix,
		defaultConfigurationFile: defaultConfigurationFile,
		defaultOverrideDirectory: defaultOverrideDirectory,
		environmentKeyReplacer:   strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// SetEmbeddedConfiguration stores configuration merged before any file.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte) {
	if loader == nil {
		return
	}
	loader.embeddedConfiguration = append([]byte(nil), configurationData...)
}

// LoadConfiguration populates targetConfiguration. Later sources win:
// defaultValues, embedded configuration, the configuration file, override
// files in lexical order, then environment variables.
func (loader *ConfigurationLoader) LoadConfiguration(sources ConfigurationSources, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(loader.configurationType)

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(loader.embeddedConfiguration) > 0 {
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}
	}

	loadedConfiguration := LoadedConfiguration{}

	configurationFile, configurationFileRequired := selectSource(sources.ConfigurationFile, loader.defaultConfigurationFile)
	if len(configurationFile) > 0 {
		merged, mergeError := loader.mergeFile(viperInstance, configurationFile, configurationFileRequired)
		if mergeError != nil {
			return LoadedConfiguration{}, mergeError
		}
		if merged {
			loadedConfiguration.FilesUsed = append(loadedConfiguration.FilesUsed, configurationFile)
		}
	}

	overrideDirectory, overrideDirectoryRequired := selectSource(sources.OverrideDirectory, loader.defaultOverrideDirectory)
	if len(overrideDirectory) > 0 {
		overrideFiles, listError := loader.overrideFiles(overrideDirectory, overrideDirectoryRequired)
		if listError != nil {
			return LoadedConfiguration{}, listError
		}
		for _, overrideFile := range overrideFiles {
			if _, mergeError := loader.mergeFile(viperInstance, overrideFile, true); mergeError != nil {
				return LoadedConfiguration{}, mergeError
			}
			loadedConfiguration.FilesUsed = append(loadedConfiguration.FilesUsed, overrideFile)
		}
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	viperInstance.AutomaticEnv()

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(listSeparatorConstant),
	))
	if unmarshalError := viperInstance.Unmarshal(targetConfiguration, decodeHook); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return loadedConfiguration, nil
}

func (loader *ConfigurationLoader) mergeFile(viperInstance *viper.Viper, path string, required bool) (bool, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		if !required && errors.Is(readError, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(configurationReadErrorTemplateConstant, path, readError)
	}
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(content)); mergeError != nil {
		return false, fmt.Errorf(configurationMergeErrorTemplateConstant, path, mergeError)
	}
	return true, nil
}

func (loader *ConfigurationLoader) overrideFiles(directory string, required bool) ([]string, error) {
	info, statError := os.Stat(directory)
	if statError != nil || !info.IsDir() {
		if required {
			return nil, fmt.Errorf(missingOverrideDirectoryTemplateConstant, directory)
		}
		return nil, nil
	}

	overrideFiles, globError := filepath.Glob(filepath.Join(directory, fmt.Sprintf(overridePatternTemplateConstant, loader.configurationType)))
	if globError != nil {
		return nil, fmt.Errorf(overrideDirectoryErrorTemplateConstant, directory, globError)
	}
	sort.Strings(overrideFiles)
	return overrideFiles, nil
}

func selectSource(explicitValue string, defaultValue string) (string, bool) {
	if trimmedValue := strings.TrimSpace(explicitValue); len(trimmedValue) > 0 {
		return trimmedValue, true
	}
	return strings.TrimSpace(defaultValue), false
}
