// Package common holds the pieces the frame codecs share: a bounds-checked
// byte cursor, an output canvas seeded from the previous frame, 5-5-5 color
// helpers, and the guard that converts runtime faults into
// [github.com/dargueta/pixcodec.ErrCorrupt].
package common
