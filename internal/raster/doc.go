// Package raster converts acquired image bytes into the clipboard's target
// encoding.
//
// The clipboard carries exactly one raster format: PNG. Everything the
// acquisition pipeline produces funnels through Normalize, which passes PNG
// input through untouched and decodes/re-encodes anything else (JPEG, GIF,
// WebP). Surface is the off-screen pixel buffer used by the acquisition
// strategies that start from already-decoded page content: render into it,
// export encoded bytes out of it.
//
// # Format Detection
//
// Formats are detected from magic bytes, never from URLs or file names:
//   - PNG:  89 50 4E 47 0D 0A 1A 0A
//   - JPEG: FF D8 FF
//   - GIF:  "GIF87a" / "GIF89a"
//   - WebP: "RIFF" .... "WEBP"
//
// # Size Bounding
//
// Re-encoded output is bounded to a maximum edge length without cropping
// (aspect ratio preserved, Lanczos resampling). PNG passthrough is exempt:
// bytes already in the target format are returned byte-identical, whatever
// their dimensions, so a cache hit never pays a re-encode.
package raster
