// Package exr wraps the OpenEXR codec library behind the small surface the
// merge engine needs: probing a file's header, decoding all channels at a
// chosen storage precision, and serializing a combined multi-layer scanline
// file. Pixel payloads are treated as opaque sample buffers; no color
// processing happens here.
package exr
