// SPDX-License-Identifier: MIT
package tuner

import (
	"strings"
)

// CommandKind identifies what a piece of command text asks for.
type CommandKind int

const (
	NoOp CommandKind = iota
	SetTarget
	EnterTunerMode
	ExitTunerMode
)

func (k CommandKind) String() string {
	switch k {
	case SetTarget:
		return "set_target"
	case EnterTunerMode:
		return "enter_tuner_mode"
	case ExitTunerMode:
		return "exit_tuner_mode"
	default:
		return "noop"
	}
}

// Command is a parsed user intent. Note is only set for SetTarget.
type Command struct {
	Kind CommandKind
	Note string
}

const targetPhrase = "tune to "

var (
	exitPhrases  = []string{"exit tuner", "chord mode"}
	enterPhrases = []string{"tuner mode", "tune guitar"}
)

// ParseCommand maps transcribed text onto a Command. Patterns are tried in
// priority order and only the first match is returned:
//
//  1. "tune to <note>"   -> SetTarget
//  2. "exit tuner", "chord mode"  -> ExitTunerMode
//  3. "tuner mode", "tune guitar" -> EnterTunerMode
//
// Anything else is NoOp.
func ParseCommand(text string) Command {
	text = strings.ToLower(text)

	if note, ok := parseTarget(text); ok {
		return Command{Kind: SetTarget, Note: note}
	}
	if containsAny(text, exitPhrases) {
		return Command{Kind: ExitTunerMode}
	}
	if containsAny(text, enterPhrases) {
		return Command{Kind: EnterTunerMode}
	}
	return Command{Kind: NoOp}
}

// parseTarget scans every "tune to" occurrence and returns the first note
// that follows one.
func parseTarget(text string) (string, bool) {
	for rest := text; ; {
		i := strings.Index(rest, targetPhrase)
		if i < 0 {
			return "", false
		}
		rest = rest[i+len(targetPhrase):]

		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return "", false
		}
		if note, ok := noteToken(fields); ok {
			return note, true
		}
	}
}

// noteToken reads a note from the leading fields: "g", "g#", "bb", "f sharp"
// or "b flat". Trailing punctuation from the transcriber is ignored.
func noteToken(fields []string) (string, bool) {
	token := trimPunct(fields[0])
	if len(token) == 0 || len(token) > 2 || token[0] < 'a' || token[0] > 'g' {
		return "", false
	}

	letter := strings.ToUpper(token[:1])
	if len(token) == 2 {
		switch token[1] {
		case '#':
			return letter + "#", true
		case 'b':
			return letter + "b", true
		default:
			return "", false
		}
	}

	if len(fields) > 1 {
		switch trimPunct(fields[1]) {
		case "sharp":
			return letter + "#", true
		case "flat":
			return letter + "b", true
		}
	}
	return letter, true
}

func trimPunct(s string) string {
	return strings.TrimRight(s, ".,!?;:'\"")
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
