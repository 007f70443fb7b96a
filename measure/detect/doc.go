// Package detect localizes whistler candidates in a CFAR pulse train and
// fits the dispersion parameter D0 of each one.
//
// Localization pairs the rising and falling edges of the pulse train, takes
// the strongest correlation sample inside every pulse as a candidate, and
// merges candidates whose times round to the same bucket. A [Fitter] then
// cuts a fixed-length window of the normalized spectrogram at each candidate
// and searches D0 for the kernel whose valid-mode correlation peaks highest.
//
// Two search strategies are available. [SearchExhaustive] evaluates every
// integer D0 in the range. [SearchBucketed] evaluates only bucket midpoints,
// then every D0 inside the winning bucket; it is several times cheaper and
// may settle on a slightly different D0. The strategy used is stored in each
// [Record].
package detect
