// Package breath implements the breathing cycle engine.
//
// An Engine advances a repeating Inhale → (Hold) → Exhale countdown one whole second per Tick
// and counts completed cycles. It performs no scheduling of its own: a Driver pairs one Engine
// with one Clock and delivers ticks and commands from a single goroutine, so the Engine needs no
// locking. Tests substitute a ManualClock for the real ticker.
package breath
