package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/fithub/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAdvice MsgKind = iota
	MsgProgressUpdate
	MsgVideoComplete
)

type adviceResult struct {
	advice string
	err    error
}

type videoResult struct {
	result *tasks.VideoResult
	err    error
}

// adviceMsg is the constructor for [MsgAdvice]
func adviceMsg(advice string, err error) Msg {
	return Msg{kind: MsgAdvice, data: adviceResult{advice, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// videoCompleteMsg is the constructor for [MsgVideoComplete]
func videoCompleteMsg(result *tasks.VideoResult, err error) Msg {
	return Msg{kind: MsgVideoComplete, data: videoResult{result, err}}
}
