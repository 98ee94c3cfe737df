// Package terminal provides direct ANSI terminal control for cell-grid output.
//
// Features:
//   - True color (24-bit) and 256-color palette encoding
//   - Coalesced SGR style output for styled frame streams
//   - Live size detection via TIOCGWINSZ
//   - Raw-mode session with alternate screen, SIGWINCH resize events and key input
//   - Clean terminal restoration on exit
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
