package logger

// Most non-error log messages are given a message ID that can be used to set
// the log level for that message. Errors do not get a message ID because you
// cannot turn errors into non-errors (otherwise a failed rewrite would
// incorrectly succeed). Some internal messages do not get a message ID
// because they are part of debugging output. These use "MsgID_None" instead.
type MsgID = uint8

const (
	MsgID_None MsgID = iota

	// Pipeline
	MsgID_Pipeline_PassSummary
	MsgID_Pipeline_Timing

	MsgID_END // Keep this at the end (used only for tests)
)

func StringToMsgIDs(str string, logLevel LogLevel, overrides map[MsgID]LogLevel) {
	switch str {
	case "pass-summary":
		overrides[MsgID_Pipeline_PassSummary] = logLevel
	case "timing":
		overrides[MsgID_Pipeline_Timing] = logLevel

	default:
		// Ignore invalid entries since this message id may have
		// been renamed/removed since when this code was written
	}
}

func MsgIDToString(id MsgID) string {
	switch id {
	case MsgID_Pipeline_PassSummary:
		return "pass-summary"
	case MsgID_Pipeline_Timing:
		return "timing"
	}

	return ""
}

// Parses a log level name as used on the command line
func StringToLogLevel(str string) (LogLevel, bool) {
	switch str {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warning":
		return LevelWarning, true
	case "error":
		return LevelError, true
	case "silent":
		return LevelSilent, true
	}
	return LevelNone, false
}
