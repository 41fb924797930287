package conversion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/utils/flags"
)

const (
	json2dbCommandUseConstant              = "json2db <input_dir> <db_file>"
	json2dbCommandShortDescriptionConstant = "Create a repository database from pkgbase JSON files"
	json2dbCommandLongDescriptionConstant  = "json2db reads every JSON document in the input directory and writes a repository database."
	json2dbExecutionErrorTemplateConstant  = "json2db failed: %w"
	json2dbArgumentCountConstant           = 2
	filesFlagNameConstant                  = "files"
	filesFlagShorthandConstant             = "f"
	filesFlagDescriptionConstant           = "Create a files database including the file lists of every package"
)

// JSON2DBOptions are the resolved inputs of a json2db run.
type JSON2DBOptions struct {
	InputDirectory string
	DatabaseFile   string
	DatabaseType   defaults.RepoDbType
	Compression    defaults.Compression
}

// JSON2DBCommandBuilder assembles the json2db command.
type JSON2DBCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ConverterResolver     ConverterResolver
}

// Build constructs the json2db command.
func (builder *JSON2DBCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   json2dbCommandUseConstant,
		Short: json2dbCommandShortDescriptionConstant,
		Long:  json2dbCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(json2dbArgumentCountConstant),
		RunE:  builder.run,
	}
	command.Flags().BoolP(filesFlagNameConstant, filesFlagShorthandConstant, false, filesFlagDescriptionConstant)
	flags.AddChoiceFlag(command.Flags(), compressionFlagNameConstant, string(defaults.DefaultCompression), defaults.SupportedCompressions(), compressionFlagDescriptionConstant)
	return command, nil
}

func (builder *JSON2DBCommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := resolveLogger(builder.LoggerProvider)
	converter := resolveConverter(builder.ConverterResolver, logger)
	if conversionError := converter.CreateDBFromJSONFiles(command.Context(), options.InputDirectory, options.DatabaseFile, options.DatabaseType, options.Compression); conversionError != nil {
		return fmt.Errorf(json2dbExecutionErrorTemplateConstant, conversionError)
	}
	return nil
}

func (builder *JSON2DBCommandBuilder) parseOptions(command *cobra.Command, arguments []string) (JSON2DBOptions, error) {
	configuration := resolveConfiguration(builder.ConfigurationProvider)

	options := JSON2DBOptions{
		InputDirectory: arguments[0],
		DatabaseFile:   arguments[1],
		DatabaseType:   configuration.JSON2DB.DatabaseType,
		Compression:    configuration.JSON2DB.Compression,
	}

	if command.Flags().Changed(filesFlagNameConstant) {
		filesDatabase, filesFlagError := command.Flags().GetBool(filesFlagNameConstant)
		if filesFlagError != nil {
			return JSON2DBOptions{}, filesFlagError
		}
		options.DatabaseType = defaults.RepoDbTypeDefault
		if filesDatabase {
			options.DatabaseType = defaults.RepoDbTypeFiles
		}
	}

	compression, compressionError := compressionFromFlag(command, options.Compression)
	if compressionError != nil {
		return JSON2DBOptions{}, compressionError
	}
	options.Compression = compression
	return options, nil
}
