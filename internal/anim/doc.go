// Package anim holds the mutable animation state of the noise field.
//
// A [State] is owned by the render loop. Once per frame the loop applies the
// decoded input events, calls [State.Advance] to integrate velocity into the
// offsets, renders, and then calls [State.Calibrate]. Calibrate periodically
// refits the slope and intercept that map raw noise to color intensity from
// the observed extrema.
//
// The observed extrema only ever widen, so contrast settles over time and
// never resets.
package anim
