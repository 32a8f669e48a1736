// Package dataset reorganizes the E-GMD corpus into split folders.
//
// The metadata CSV shipped with the corpus assigns every recording to
// train, test or validation. A Splitter walks the dataset root, looks each
// audio or MIDI file up by its root-relative path, and renames it into
// <root>/<SplitDir>/<flattened name>, where the flattened name is the
// relative path with "/" replaced by "-".
package dataset
