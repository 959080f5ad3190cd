package detect

import (
	"bytes"
	"testing"
)

func TestShouldDeliver_OncePerDistinctContent(t *testing.T) {
	var d Detector

	a := []byte("image-a")
	b := []byte("image-b")

	if !d.ShouldDeliver(a) {
		t.Fatal("first sight of a should deliver")
	}
	if d.ShouldDeliver(a) {
		t.Fatal("repeat of a must not deliver")
	}
	if d.ShouldDeliver(a) {
		t.Fatal("repeat of a must not deliver (third tick)")
	}
	if !d.ShouldDeliver(b) {
		t.Fatal("first sight of b should deliver")
	}
	// a is novel again after b was seen.
	if !d.ShouldDeliver(a) {
		t.Fatal("a after b should deliver again")
	}
}

func TestShouldDeliver_EmptyNeverDelivers(t *testing.T) {
	var d Detector
	if d.ShouldDeliver(nil) {
		t.Fatal("nil bytes must not deliver")
	}
	if d.ShouldDeliver([]byte{}) {
		t.Fatal("empty bytes must not deliver")
	}
}

func TestShouldDeliver_UpdatesBeforeDeliveryConfirmation(t *testing.T) {
	// The fingerprint is committed when ShouldDeliver returns true, so the
	// same bytes are skipped on the next tick even if the caller's delivery
	// failed in between.
	var d Detector
	img := bytes.Repeat([]byte{0xAB}, 1024)

	if !d.ShouldDeliver(img) {
		t.Fatal("expected delivery signal")
	}
	// Caller delivery fails here; next tick sees identical clipboard bytes.
	if d.ShouldDeliver(img) {
		t.Fatal("failed delivery must not cause a retry of identical bytes")
	}
}

func TestObserve_SeedsWithoutDelivering(t *testing.T) {
	var d Detector
	img := []byte("already-on-clipboard")

	d.Observe(img)
	if d.ShouldDeliver(img) {
		t.Fatal("observed bytes must not be delivered")
	}
	if !d.ShouldDeliver([]byte("new")) {
		t.Fatal("new bytes after seeding should deliver")
	}
}

func TestObserve_EmptyIsNoop(t *testing.T) {
	var d Detector
	d.Observe(nil)
	if !d.ShouldDeliver([]byte("x")) {
		t.Fatal("detector should still treat first real content as novel")
	}
}
