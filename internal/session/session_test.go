package session

import "testing"

func TestCurrentSwitchesUser(t *testing.T) {
	c := NewCurrent("alice")
	if c.ActiveUser() != "alice" {
		t.Fatalf("unexpected user %q", c.ActiveUser())
	}
	c.Set("  bob ")
	if c.ActiveUser() != "bob" {
		t.Fatalf("expected trimmed user, got %q", c.ActiveUser())
	}
	c.Logout()
	if c.ActiveUser() != "" {
		t.Fatalf("expected no user after logout, got %q", c.ActiveUser())
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve(" carol "); got != "carol" {
		t.Fatalf("expected configured user, got %q", got)
	}
	if got := Resolve(""); got == "" {
		t.Fatal("expected a fallback user")
	}
	var p Provider = Static("dave")
	if p.ActiveUser() != "dave" {
		t.Fatal("static provider mismatch")
	}
}
