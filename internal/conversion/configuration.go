package conversion

import (
	"strings"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	pathutils "github.com/Cyberx9901/arch-repo-management/internal/utils/path"
)

const (
	configurationKeySeparatorConstant       = "."
	db2jsonConfigurationKeyConstant         = "db2json"
	json2dbConfigurationKeyConstant         = "json2db"
	compressionConfigurationKeyConstant     = "compression"
	outputDirectoryConfigurationKeyConstant = "output_dir"
	databaseTypeConfigurationKeyConstant    = "db_type"
	defaultOutputDirectoryConstant          = "."
)

// Configuration aggregates settings for the conversion commands.
type Configuration struct {
	DB2JSON DB2JSONConfiguration `mapstructure:"db2json"`
	JSON2DB JSON2DBConfiguration `mapstructure:"json2db"`
}

// DB2JSONConfiguration stores defaults for the db2json command.
type DB2JSONConfiguration struct {
	Compression     defaults.Compression `mapstructure:"compression"`
	OutputDirectory string               `mapstructure:"output_dir"`
}

// JSON2DBConfiguration stores defaults for the json2db command.
type JSON2DBConfiguration struct {
	Compression  defaults.Compression `mapstructure:"compression"`
	DatabaseType defaults.RepoDbType  `mapstructure:"db_type"`
}

// DefaultConfiguration supplies baseline values for the conversion commands.
func DefaultConfiguration() Configuration {
	return Configuration{
		DB2JSON: DB2JSONConfiguration{
			Compression:     defaults.DefaultCompression,
			OutputDirectory: defaultOutputDirectoryConstant,
		},
		JSON2DB: JSON2DBConfiguration{
			Compression:  defaults.DefaultCompression,
			DatabaseType: defaults.RepoDbTypeDefault,
		},
	}
}

// DefaultConfigurationValues flattens DefaultConfiguration into Viper keys below prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	configuration := DefaultConfiguration()
	return map[string]any{
		joinConfigurationKey(prefix, db2jsonConfigurationKeyConstant, compressionConfigurationKeyConstant):     string(configuration.DB2JSON.Compression),
		joinConfigurationKey(prefix, db2jsonConfigurationKeyConstant, outputDirectoryConfigurationKeyConstant): configuration.DB2JSON.OutputDirectory,
		joinConfigurationKey(prefix, json2dbConfigurationKeyConstant, compressionConfigurationKeyConstant):     string(configuration.JSON2DB.Compression),
		joinConfigurationKey(prefix, json2dbConfigurationKeyConstant, databaseTypeConfigurationKeyConstant):    string(configuration.JSON2DB.DatabaseType),
	}
}

// Sanitize fills unset values with their defaults and expands a leading "~"
// in the configured output directory.
func (configuration Configuration) Sanitize() Configuration {
	defaultConfiguration := DefaultConfiguration()
	sanitized := configuration
	if len(sanitized.DB2JSON.Compression) == 0 {
		sanitized.DB2JSON.Compression = defaultConfiguration.DB2JSON.Compression
	}
	sanitized.DB2JSON.OutputDirectory = pathutils.NewDirectoryResolver().Normalize(sanitized.DB2JSON.OutputDirectory)
	if len(sanitized.DB2JSON.OutputDirectory) == 0 {
		sanitized.DB2JSON.OutputDirectory = defaultConfiguration.DB2JSON.OutputDirectory
	}
	if len(sanitized.JSON2DB.Compression) == 0 {
		sanitized.JSON2DB.Compression = defaultConfiguration.JSON2DB.Compression
	}
	if len(sanitized.JSON2DB.DatabaseType) == 0 {
		sanitized.JSON2DB.DatabaseType = defaultConfiguration.JSON2DB.DatabaseType
	}
	return sanitized
}

func joinConfigurationKey(parts ...string) string {
	nonEmptyParts := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) > 0 {
			nonEmptyParts = append(nonEmptyParts, part)
		}
	}
	return strings.Join(nonEmptyParts, configurationKeySeparatorConstant)
}
