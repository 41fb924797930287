package utils

import "context"

const (
	configurationFilesContextKeyConstant = commandContextKey("configurationFiles")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFiles attaches the merged configuration files to the context.
func (accessor CommandContextAccessor) WithConfigurationFiles(parentContext context.Context, configurationFiles []string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilesContextKeyConstant, append([]string(nil), configurationFiles...))
}

// ConfigurationFiles extracts the merged configuration files from the context.
func (accessor CommandContextAccessor) ConfigurationFiles(executionContext context.Context) ([]string, bool) {
	if executionContext == nil {
		return nil, false
	}
	configurationFiles, available := executionContext.Value(configurationFilesContextKeyConstant).([]string)
	return configurationFiles, available
}
