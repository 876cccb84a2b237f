// Package wrap turns a wrap request into a print-ready raster.
//
// A Request names a wrap type, the vessel (by preset or explicit dimensions), a resolution
// and an already decoded source image. Generate resolves the vessel into a geometry.Shape
// and hands the source to the matching renderer:
//
//   - straight: the image is stretched to fill a rectangle
//   - seamless: the image is tiled unscaled across a rectangle
//   - tapered: the image is tiled through the unrolled annular sector of a cone
//
// Requests are plain values. Nothing is cached between calls and the same request always
// produces the same pixels.
package wrap
