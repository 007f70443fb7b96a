// Package cfar implements constant-false-alarm-rate detectors for 1-D
// correlation traces.
//
// Every estimator slides a window of 2(N+G)+1 cells over the trace. The cell
// under test sits in the middle, flanked by G guard cells and then N noise
// cells on each side. The 2N noise cells, squared, feed the estimator:
//
//   - CA (cell averaging): mean noise power.
//   - OS (ordered statistic): the (N-1)-th smallest noise power.
//   - TM (trimmed mean): mean noise power after dropping the T1 smallest and
//     T2 largest cells.
//
// The estimate is multiplied by the scaling factor derived from the design
// SNR and compared against the squared trace. Fusion votes the three:
// (CA and (OS or TM)) or (OS and TM).
//
// The trace is replicate-padded so the pulse train has the input's length.
// The first and last pulse are always false.
package cfar
