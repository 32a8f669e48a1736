// Command egmdprep prepares the E-GMD drum corpus for training: it moves
// audio and MIDI files into Test/Train/Val folders according to the corpus
// metadata and renders Mel or magnitude spectrogram images.
package main
