// Package source reads vendor CSV exports as a sequence of numbered lines.
//
// Inputs may be zstd-compressed (the vendor's default delivery) or plain
// text. Compression is detected from the file extension or the zstd frame
// magic number unless forced with WithCompression.
package source
