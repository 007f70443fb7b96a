// Package signal synthesizes deterministic VLF test signals: white noise and
// dispersed whistlers following the Bernard dispersion law.
package signal
