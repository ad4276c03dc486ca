package logger_test

import (
	"testing"

	"github.com/disposejs/dispose/internal/logger"
	"github.com/disposejs/dispose/internal/test"
)

func TestMsgIDs(t *testing.T) {
	for id := logger.MsgID_None; id <= logger.MsgID_END; id++ {
		str := logger.MsgIDToString(id)
		if str == "" {
			continue
		}

		overrides := make(map[logger.MsgID]logger.LogLevel)
		logger.StringToMsgIDs(str, logger.LevelError, overrides)
		if len(overrides) == 0 {
			t.Fatalf("Failed to find message id(s) for the string %q", str)
		}

		for k, v := range overrides {
			test.AssertEqual(t, logger.MsgIDToString(k), str)
			test.AssertEqual(t, v, logger.LevelError)
		}
	}
}

func TestMsgString(t *testing.T) {
	source := test.SourceForTest("let x = 1;\nconst { a } = x;\n")
	msg := logger.Msg{
		Kind:     logger.Error,
		Text:     "Cannot destructure from a non-literal value",
		Location: logger.LocationOrNil(&source, logger.Range{Loc: logger.Loc{Start: 17}, Len: 5}),
	}

	test.AssertEqualWithDiff(t, msg.String(logger.OutputOptions{IncludeSource: true}, logger.TerminalInfo{}),
		"<stdin>:2:6: error: Cannot destructure from a non-literal value\n"+
			"const { a } = x;\n"+
			"      ~~~~~\n")

	test.AssertEqual(t, msg.String(logger.OutputOptions{}, logger.TerminalInfo{}),
		"<stdin>: error: Cannot destructure from a non-literal value\n")
}

func TestMsgStringWithoutLocation(t *testing.T) {
	msg := logger.Msg{Kind: logger.Warning, Text: "nothing to do"}
	test.AssertEqual(t, msg.String(logger.OutputOptions{}, logger.TerminalInfo{}), "warning: nothing to do\n")
}

func TestDeferLogFiltersByLevel(t *testing.T) {
	log := logger.NewDeferLog(logger.LevelWarning)
	log.AddMsg(logger.Msg{Kind: logger.Debug, Text: "dropped"})
	log.AddMsg(logger.Msg{Kind: logger.Warning, Text: "kept"})
	test.AssertEqual(t, log.HasErrors(), false)
	log.AddMsg(logger.Msg{Kind: logger.Error, Text: "failed"})
	test.AssertEqual(t, log.HasErrors(), true)

	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 2)
	test.AssertEqual(t, msgs[0].Text, "failed")
	test.AssertEqual(t, msgs[1].Text, "kept")
}

func TestStringToLogLevel(t *testing.T) {
	level, ok := logger.StringToLogLevel("warning")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, level, logger.LevelWarning)

	_, ok = logger.StringToLogLevel("loud")
	test.AssertEqual(t, ok, false)
}
