// Package detect suppresses duplicate deliveries by fingerprinting image
// bytes and comparing against the last delivered fingerprint.
package detect

import "crypto/md5"

// Fingerprint is a 128-bit content hash. It is used purely for change
// detection, not as an integrity guarantee.
type Fingerprint [md5.Size]byte

// Of computes the fingerprint of b.
func Of(b []byte) Fingerprint { return md5.Sum(b) }

// Detector tracks the fingerprint of the last image handed to delivery.
// It is single-writer: the poll loop is the only caller.
type Detector struct {
	last Fingerprint
	seen bool
}

// ShouldDeliver reports whether b is novel relative to the last delivered
// image. The stored fingerprint is updated before the caller attempts
// delivery: a failed delivery is deliberately not retried on the next
// tick, so an unreachable remote is not hammered every 200ms with the
// same clipboard content.
func (d *Detector) ShouldDeliver(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	fp := Of(b)
	if d.seen && fp == d.last {
		return false
	}
	d.last = fp
	d.seen = true
	return true
}

// Observe records b's fingerprint without signalling delivery. Used at
// startup to avoid re-delivering whatever was already on the clipboard.
func (d *Detector) Observe(b []byte) {
	if len(b) == 0 {
		return
	}
	d.last = Of(b)
	d.seen = true
}
