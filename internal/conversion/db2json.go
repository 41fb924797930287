package conversion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/utils/flags"
)

const (
	db2jsonCommandUseConstant              = "db2json <db_file> [output_dir]"
	db2jsonCommandShortDescriptionConstant = "Dump a repository database to pkgbase JSON files"
	db2jsonCommandLongDescriptionConstant  = "db2json reads a repository database and writes one JSON document per pkgbase into the output directory."
	db2jsonExecutionErrorTemplateConstant  = "db2json failed: %w"
	db2jsonMinimumArgumentsConstant        = 1
	db2jsonMaximumArgumentsConstant        = 2
)

// DB2JSONOptions are the resolved inputs of a db2json run.
type DB2JSONOptions struct {
	DatabaseFile    string
	OutputDirectory string
	Compression     defaults.Compression
}

// DB2JSONCommandBuilder assembles the db2json command.
type DB2JSONCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ConverterResolver     ConverterResolver
}

// Build constructs the db2json command.
func (builder *DB2JSONCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   db2jsonCommandUseConstant,
		Short: db2jsonCommandShortDescriptionConstant,
		Long:  db2jsonCommandLongDescriptionConstant,
		Args:  cobra.RangeArgs(db2jsonMinimumArgumentsConstant, db2jsonMaximumArgumentsConstant),
		RunE:  builder.run,
	}
	flags.AddChoiceFlag(command.Flags(), compressionFlagNameConstant, string(defaults.DefaultCompression), defaults.SupportedCompressions(), compressionFlagDescriptionConstant)
	return command, nil
}

func (builder *DB2JSONCommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := resolveLogger(builder.LoggerProvider)
	converter := resolveConverter(builder.ConverterResolver, logger)
	if conversionError := converter.DumpDBToJSONFiles(command.Context(), options.DatabaseFile, options.OutputDirectory, options.Compression); conversionError != nil {
		return fmt.Errorf(db2jsonExecutionErrorTemplateConstant, conversionError)
	}
	return nil
}

func (builder *DB2JSONCommandBuilder) parseOptions(command *cobra.Command, arguments []string) (DB2JSONOptions, error) {
	configuration := resolveConfiguration(builder.ConfigurationProvider)

	options := DB2JSONOptions{
		DatabaseFile:    arguments[0],
		OutputDirectory: configuration.DB2JSON.OutputDirectory,
		Compression:     configuration.DB2JSON.Compression,
	}
	if len(arguments) > 1 {
		options.OutputDirectory = arguments[1]
	}

	compression, compressionError := compressionFromFlag(command, options.Compression)
	if compressionError != nil {
		return DB2JSONOptions{}, compressionError
	}
	options.Compression = compression
	return options, nil
}

func compressionFromFlag(command *cobra.Command, configured defaults.Compression) (defaults.Compression, error) {
	if !command.Flags().Changed(compressionFlagNameConstant) {
		return configured, nil
	}
	compressionFlag := command.Flags().Lookup(compressionFlagNameConstant)
	return defaults.ParseCompression(compressionFlag.Value.String())
}
