// Package geometry computes the flat shapes a printed wrap must take for a drinking vessel.
//
// A straight-walled vessel unrolls into a plain rectangle. A tapered vessel is a frustum
// (a cone with its apex cut off) and its lateral surface unrolls into an annular sector:
// the region between two concentric arcs that share the cone apex as their center.
//
// # Units
//
// Vessel dimensions are physical lengths in inches. Every shape returned by this package
// is expressed in pixels, obtained by multiplying by the requested resolution (DPI).
// Angles are in radians.
//
// # Coordinate System
//
// Shapes are placed on a canvas whose origin (0,0) is the top-left corner, X increasing
// rightward and Y increasing downward. A sector is symmetric about the vertical line
// through its center, with the wide (top rim) arc at the top of the canvas and the apex
// below the canvas.
//
// # Errors
//
// Every constructor validates its inputs and returns an error wrapping
// ErrInvalidDimensions rather than letting a division by zero, a NaN or an infinity reach
// a renderer.
package geometry
