package cli

import (
	"embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Generate projects from template directories"
	MsgVersionShort = "Print version information"
	MsgInfoShort    = "Show the slots and hooks of a project"
	MsgCheckShort   = "Validate a project's manifest and templates"
	MsgFillShort    = "Generate a project into an output path"
	MsgServeShort   = "Serve spackle as MCP tools over stdio"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagProject     = "Project directory or single template file"
	MsgFlagFormat      = "Output format: auto, terminal, text, json or yaml"
	MsgFlagConfig      = "Settings file (default is $XDG_CONFIG_HOME/spackle/config.toml)"
	MsgFlagOut         = "Output path"
	MsgFlagSlot        = "Slot value as key=value (repeatable)"
	MsgFlagHook        = "Optional hook toggle as key=true|false (repeatable)"
	MsgFlagOverwrite   = "Write into an existing output path"
	MsgFlagMetricsFile = "Write fill metrics in Prometheus text format to this file"
	MsgFlagWatch       = "Re-fill whenever the project changes"

	// Status messages
	MsgWatching      = "Watching %s for changes (Ctrl-C to stop)\n"
	MsgRefilling     = "Change detected, filling again"
	MsgVersionFormat = "spackle version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNoOutput = "an output path is required (--out)"
)

var (
	//go:embed msgs/*.txt
	msgsFS embed.FS

	//go:embed topics
	topicsFS embed.FS

	MsgRootLong    = msg("root-long")
	MsgFillLong    = msg("fill-long")
	MsgFillExample = msg("fill-example")
	MsgCheckLong   = msg("check-long")
	MsgInfoLong    = msg("info-long")
	MsgServeLong   = msg("serve-long")
)

func msg(name string) string {
	data, err := msgsFS.ReadFile("msgs/" + name + ".txt")
	if err != nil {
		panic("missing message " + name)
	}
	return strings.TrimRight(string(data), "\n")
}
