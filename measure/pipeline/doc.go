// Package pipeline runs whistler detection over recorded VLF segments.
//
// A [Pipeline] turns one segment into fitted detections: it computes the
// spectrogram, restricts it to the regime's frequency band, standardizes it,
// correlates it with the regime's reference kernel, thresholds the
// correlation trace with a CFAR detector, localizes candidates and fits D0
// for each of them.
//
// [Batch] applies a Pipeline to many segments on a bounded worker pool. A
// segment that fails, even by panicking, yields an error result and never
// stops the others. Results can be exported through [Metrics].
package pipeline
