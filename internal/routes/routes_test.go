package routes

import "testing"

func TestProfilePath(t *testing.T) {
	if got := ProfilePath("alice"); got != "/p/alice" {
		t.Errorf("ProfilePath() = %q", got)
	}
	if got := ProfilePath("a b"); got != "/p/a%20b" {
		t.Errorf("ProfilePath() = %q", got)
	}
}

func TestAvatarPath(t *testing.T) {
	if got := AvatarPath("alice", ""); got != "/images/avatars/alice.jpg" {
		t.Errorf("AvatarPath() = %q", got)
	}
	if got := AvatarPath("alice", "https://cdn/a.png"); got != "https://cdn/a.png" {
		t.Errorf("AvatarPath() = %q", got)
	}
}
