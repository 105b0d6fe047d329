// Package viz renders field geometry in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Camera] and [Wireframe]: perspective projection of traced field lines
//   - Lip Gloss styles shared by the explorer and the CLI
package viz
