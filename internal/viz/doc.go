// Package viz renders a running gait in the terminal with Bubble Tea.
//
// [Model] drives a configured engine on a fixed time step and shows the six
// legs as spokes turning about their hips, a per-leg cycle bar, and a chart
// of recent wrapped commands. Parameters can be tuned while it runs; a
// change that fails validation is reported and the previous gait keeps
// running.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from t=0
//	Tab   - Select next parameter
//	↑/↓   - Nudge selected parameter by ±0.05
//	[ ]   - Slow down / speed up
//	?     - Toggle help
//	Q     - Quit
package viz
