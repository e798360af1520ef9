package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/souffle/internal/breath"
)

var (
	_ list.Item = exerciseItem{}
)

// exerciseItem wraps [breath.Exercise] to implement [list.Item].
type exerciseItem struct {
	exercise breath.Exercise
}

func (i exerciseItem) FilterValue() string { return i.exercise.Name }
func (i exerciseItem) Title() string       { return i.exercise.Name }
func (i exerciseItem) Description() string {
	desc := fmt.Sprintf("%s • %ds/cycle", i.exercise.Pattern(), i.exercise.CycleSeconds())
	if benefits := breath.Benefits(i.exercise); len(benefits) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(benefits, ", "))
	}
	return desc
}

func exerciseItems(exercises []breath.Exercise) []list.Item {
	items := make([]list.Item, len(exercises))
	for i, ex := range exercises {
		items[i] = exerciseItem{exercise: ex}
	}
	return items
}
