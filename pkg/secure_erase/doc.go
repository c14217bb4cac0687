// Package secure_erase destroys the contents of fixed drives before a machine
// leaves the refurbishment bench.
//
// NVMe drives are erased with a forced format. SATA drives try a sanitize
// block erase first and fall back to the password-gated ATA Security Erase
// when sanitize is unavailable. A Coordinator runs one worker per selected
// drive and delivers every state transition through a single channel, so the
// presentation loop never needs to synchronise with workers.
package secure_erase
