// Package viz provides the live terminal view of a rope or cloth scene.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: steps the world each frame and maps the mouse to cuts and edits
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Projection]: uniform world to canvas scaling with y pointing down
//
// # Key Bindings
//
//	Space - Pause/Resume simulation (paused worlds are editable)
//	C     - Arm cutting
//	L     - Lock newly placed points
//	R     - Rebuild the current scene
//	1/2/0 - Rope, cloth, empty sandbox
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
