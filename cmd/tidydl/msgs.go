package tidydl

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Sort your downloads folder into sub-folders"
	MsgRunShort        = "Organize the files in a directory"
	MsgClassifyShort   = "Show where names would be filed"
	MsgRulesShort      = "Show the effective classification rules"
	MsgConfigShort     = "Show the effective configuration"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgUsingDefaultSource = "Using the downloads directory %s\n"
	MsgNothingToDo        = "No files to organize in %s"
	MsgConfigWritten      = "Wrote configuration to %s"
	MsgVersionTemplate    = "tidydl {{.Version}}\n"
	MsgVersionDetails     = "  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrFilesFailed = "%d file(s) could not be moved"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Report what would be moved without touching any file"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/tidydl/config.toml)"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagStrict   = "Exit non-zero when any file failed to move"
	MsgFlagConflict = "On a name clash: skip (leave the file) or suffix (\"name - dupN.ext\")"
	MsgFlagWrite    = "Save the configuration to the user config file"
	MsgFlagDefaults = "Print the built-in defaults, with comments"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/classify-long.txt
	msgClassifyLongRaw string
	MsgClassifyLong    = strings.TrimSpace(msgClassifyLongRaw)

	//go:embed msgs/classify-example.txt
	msgClassifyExampleRaw string
	MsgClassifyExample    = strings.TrimRight(msgClassifyExampleRaw, "\n")

	//go:embed msgs/rules-long.txt
	msgRulesLongRaw string
	MsgRulesLong    = strings.TrimSpace(msgRulesLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
