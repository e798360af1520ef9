// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for breathing practice:
//  1. [LoadingView] : Resolve the exercise catalogue (backend, cache or presets)
//  2. [ExerciseListView] : Browse exercises with their pattern and benefits
//  3. [BreathingView] : Follow the phase countdown, with pause, restart and stop
//  4. [SummaryView] : Review cycles and practised time, saved to the practice log
//  5. [MeditationView] : Silent meditation countdown with rotating instructions
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Each breathing view owns its own [breath.Engine], advanced by tea.Tick; a generation counter drops ticks
// scheduled by a view that has since been left.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, r, s, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
