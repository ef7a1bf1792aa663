// Package mode implements the modal input engine: mode transitions,
// count accumulation, motions, find, operators, paste, and the
// command-line buffer.
//
// Normal-mode keys resolve against the keybinding registry first (exact
// mode, then the Any-mode fallback) so plugins and user configuration can
// override the built-ins. Keys with no registered binding fall back to the
// engine's literal dispatch.
//
// # Grammar
//
// Normal-mode input follows the shape
//
//	[count][operator][count][motion|target]
//
// Digits typed before an operator accumulate the prefix count, digits
// typed after it the motion count. When both are present the effective
// count is their product, capped at 1,000,000. A leading '0' with no
// accumulated digits is the line-start motion rather than a count digit.
//
// The engine mutates editing state only through its clamping cursor API;
// invalid input degrades to a status-line warning and never corrupts the
// buffer.
package mode
