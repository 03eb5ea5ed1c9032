// Package render paints a sheet's element sequence onto a gg raster.
//
// Every call to Render is a full repaint: the surface is cleared and each
// element is painted in sequence order, so later elements land on top.
// There is no dirty-region tracking.
package render
