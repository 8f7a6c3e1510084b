// Package formats provides parsers for the asset files the renderer reads.
//
// Wavefront OBJ meshes are handled in obj.go. Images are decoded by the
// texture package.
package formats
