package client

import "testing"

func TestContinue(t *testing.T) {

	var r Registry
	r.Initialize()

	// new client & profile counts as a visit
	if !r.Continue("10.0.0.1", "profile-1") {
		t.Error("first request: got false, want true")
	}

	// same client & profile again is a page refresh
	if r.Continue("10.0.0.1", "profile-1") {
		t.Error("refresh: got true, want false")
	}

	// same client, different profile counts again
	if !r.Continue("10.0.0.1", "profile-2") {
		t.Error("other profile: got false, want true")
	}

	// another client on the same profile counts too
	if !r.Continue("10.0.0.2", "profile-2") {
		t.Error("other client: got false, want true")
	}

	if r.Count() != 2 {
		t.Errorf("got %d clients, want 2", r.Count())
	}
}

func TestDump(t *testing.T) {

	var r Registry
	r.Initialize()

	r.Continue("10.0.0.1", "profile-1")
	r.Continue("10.0.0.2", "profile-2")
	r.Continue("10.0.0.3", "profile-3")

	dump := r.Dump(50)
	if len(dump) != 3 {
		t.Errorf("got %d entries, want 3", len(dump))
	}
}
