package domain

import (
	"testing"
	"time"
)

func TestValidSeverity(t *testing.T) {
	for _, s := range ValidSeverities {
		if !ValidSeverity(s) {
			t.Errorf("ValidSeverity(%q) = false, want true", s)
		}
	}
	if ValidSeverity("fatal") {
		t.Error("ValidSeverity(\"fatal\") = true, want false")
	}
	if ValidSeverity("") {
		t.Error("ValidSeverity(\"\") = true, want false")
	}
}

func TestNotificationSticky(t *testing.T) {
	if !(Notification{TTL: 0}).Sticky() {
		t.Error("TTL=0 should be sticky")
	}
	if !(Notification{TTL: -time.Second}).Sticky() {
		t.Error("negative TTL should be sticky")
	}
	if (Notification{TTL: 5 * time.Second}).Sticky() {
		t.Error("positive TTL should not be sticky")
	}
}
