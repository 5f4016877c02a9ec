// Package viz hosts the noise field inside a Bubble Tea program and draws the
// status header shared by every terminal front end.
//
// # Key Bindings
//
//	mouse move  - steer the field; the grid center is at rest
//	wheel       - change depth velocity
//	q, ctrl+c   - quit
package viz
