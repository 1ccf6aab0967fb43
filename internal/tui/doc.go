// Package tui is the terminal front end for wordflash.
//
// The Model wraps a flash.Controller. Playback ticks returned by the
// controller are scheduled with tea.Tick and delivered back as TickMsg, so
// every state change happens on the bubbletea update loop. Exports run as a
// tea.Cmd and report back with a completion message.
//
// The current word is drawn through the same renderer used for GIF export and
// down-sampled onto a braille canvas for the preview.
package tui
