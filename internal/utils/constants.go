package utils

// ApplicationName is the command name shown in help and version output.
const ApplicationName = "contextbuilder"

// Configuration file locations.
const (
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".contextbuilder"
	// ConfigFileName is the configuration file name inside GlobalConfigDirectoryName.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".contextbuilder.yaml"
)

// Logger messages shared by the entry point.
const (
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	ApplicationExecutionFailedMessage       = "contextbuilder failed"
)
