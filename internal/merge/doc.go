// Package merge packs one frame's per-group source files into a single
// multi-layer container file. The default-color group lands in the
// unprefixed top-level layer, every other group in a namespace equal to
// its group name. A frame with only a default-color source is copied
// byte-for-byte instead of re-encoded.
package merge
