// Package viz renders approximation sessions in the terminal.
//
// The package provides:
//
//   - [RenderTable]: convergents with their scaled input values, shared by
//     the CLI and the interactive view
//   - [App]: a Bubble Tea program bound to a session
//   - [Theme]: color palettes, switched with [SetTheme] or [NextTheme]
//   - [SaveErrorChart]: error and scale-factor curves as an image file
//
// # Key Bindings
//
//	Space  - Compute the next batch
//	P      - Toggle pivot highlighting
//	+/-    - Change displayed significant digits
//	←/→    - Select a column
//	X      - Enable/disable the selected column as pivot
//	R      - Restart, Shift+R resets to defaults
//	E      - Show the shareable state string
//	T      - Cycle color themes
//	?      - Toggle help
package viz
