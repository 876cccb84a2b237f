// Package imaging loads source images and renders them into print-ready wrap rasters.
//
// This package implements the raster side of the wrap engine: decoding a source image
// from a file or URL, stretching it over a rectangle, tiling it across a rectangle, and
// tiling it through the unrolled sector of a tapered cup. All operations work with
// standard Go image.Image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Rendering
//
// Three renderers match the three wrap styles:
//   - RenderStraight: the source is stretched to exactly fill the canvas
//   - RenderSeamless: the source is repeated edge to edge from the canvas origin
//   - RenderSector: the source is repeated edge to edge from the canvas origin, but only
//     inside an annular sector; everything outside keeps the background value
//
// Every renderer allocates a fresh *image.NRGBA and shares no state with other calls,
// so repeated or concurrent renders never observe each other.
//
// # Sector Coverage
//
// The sector outline (outer arc, inner arc in reverse, closed) is rasterized with the
// gogpu/gg software rasterizer into an anti-aliased coverage mask. The tiled source is
// then composited through that mask row by row.
//
// # Error Handling
//
// Source failures (missing file, HTTP error status, undecodable bytes) are returned as
// *LoadError values wrapping ErrImageLoad and are never retried. Rendering into a canvas
// with no pixels fails with geometry.ErrInvalidDimensions before anything is allocated.
//
// # Output
//
// Rasters are encoded as PNG by default or as deflate-compressed TIFF for print shops
// that ask for it. Tool responses carry a downscaled base64 PNG preview instead of the
// full print raster.
package imaging
