// Package exemplar turns a small source image into the statistics the
// tilewave generation engine needs to run: the set of 3x3 tiles that occur
// in it, a compatibility index over those tiles, per-color target ratios,
// and a 4D influence tensor describing how placing one color biases the
// probability of every other color at nearby grid offsets.
//
// This is the "exemplar statistics preprocessor" tilewave's core package
// deliberately leaves unimplemented, so that core stays a pure generation
// engine with no image or statistics dependencies of its own. Apart from the
// cmd/example program, exemplar is the only package in this module that
// imports both the image stdlib package and tilewave itself.
package exemplar
