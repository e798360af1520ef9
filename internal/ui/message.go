package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/souffle/internal/tasks"
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
	MsgCatalogLoaded MsgKind = iota
	MsgProgressUpdate
	MsgTick
	MsgPracticeRecorded
)

type catalogLoaded struct {
	result *tasks.CatalogResult
	err    error
}

type practiceRecorded struct {
	result *tasks.RecordResult
	err    error
}

// catalogLoadedMsg is the constructor for [MsgCatalogLoaded]
func catalogLoadedMsg(result *tasks.CatalogResult, err error) Msg {
	return Msg{kind: MsgCatalogLoaded, data: catalogLoaded{result, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// tickMsg is the constructor for [MsgTick]. gen identifies the tick loop that scheduled it.
func tickMsg(gen int) Msg {
	return Msg{kind: MsgTick, data: gen}
}

// practiceRecordedMsg is the constructor for [MsgPracticeRecorded]
func practiceRecordedMsg(result *tasks.RecordResult, err error) Msg {
	return Msg{kind: MsgPracticeRecorded, data: practiceRecorded{result, err}}
}
