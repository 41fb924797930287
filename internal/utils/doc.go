// Package utils exposes helpers shared by the repository management commands.
//
// ConfigurationLoader merges embedded defaults, the system settings file, its
// override directory and environment variables through Viper. LoggerFactory
// builds zap loggers for the configured level and format.
package utils
