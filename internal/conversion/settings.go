package conversion

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Cyberx9901/arch-repo-management/internal/config"
	"github.com/Cyberx9901/arch-repo-management/internal/utils"
	pathutils "github.com/Cyberx9901/arch-repo-management/internal/utils/path"
)

const (
	settingsCommandUseConstant              = "settings"
	settingsCommandShortDescriptionConstant = "Validate and print the resolved repository settings"
	settingsCommandLongDescriptionConstant  = "settings validates the configured repositories and prints them with every default applied."
	settingsExecutionErrorTemplateConstant  = "invalid settings: %w"
	settingsEncodeErrorTemplateConstant     = "unable to render settings: %w"
	settingsMissingProviderMessageConstant  = "settings are not available"
	settingsResolvedMessageConstant         = "Resolved repository settings"
	configurationFilesFieldConstant         = "configuration_files"
	repositoryCountFieldConstant            = "repositories"
	yamlIndentConstant                      = 2
)

// SettingsDocument is the YAML document printed by the settings command.
type SettingsDocument struct {
	PackageRepoBase string                      `yaml:"package_repo_base"`
	SourceRepoBase  string                      `yaml:"source_repo_base"`
	Repositories    []config.ResolvedRepository `yaml:"repositories"`
}

// SettingsCommandBuilder assembles the settings command.
type SettingsCommandBuilder struct {
	LoggerProvider   LoggerProvider
	SettingsProvider SettingsProvider
}

// Build constructs the settings command.
func (builder *SettingsCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   settingsCommandUseConstant,
		Short: settingsCommandShortDescriptionConstant,
		Long:  settingsCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *SettingsCommandBuilder) run(command *cobra.Command, _ []string) error {
	if builder.SettingsProvider == nil {
		return errors.New(settingsMissingProviderMessageConstant)
	}
	settings := builder.SettingsProvider()

	resolvedRepositories, resolveError := settings.Resolved()
	if resolveError != nil {
		return fmt.Errorf(settingsExecutionErrorTemplateConstant, resolveError)
	}

	logger := resolveLogger(builder.LoggerProvider)
	configurationFiles, _ := utils.NewCommandContextAccessor().ConfigurationFiles(command.Context())
	logger.Debug(settingsResolvedMessageConstant,
		zap.Strings(configurationFilesFieldConstant, configurationFiles),
		zap.Int(repositoryCountFieldConstant, len(resolvedRepositories)),
	)

	directoryResolver := pathutils.NewDirectoryResolver()
	document := SettingsDocument{
		PackageRepoBase: directoryResolver.Normalize(settings.PackageRepoBase),
		SourceRepoBase:  directoryResolver.Normalize(settings.SourceRepoBase),
		Repositories:    resolvedRepositories,
	}

	encoder := yaml.NewEncoder(command.OutOrStdout())
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return fmt.Errorf(settingsEncodeErrorTemplateConstant, encodeError)
	}
	return encoder.Close()
}
