package services

import (
	"testing"
)

func TestRoomNameOrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"1", "23"},
		{"42", "42"},
	}
	for _, pair := range pairs {
		if RoomName(pair[0], pair[1]) != RoomName(pair[1], pair[0]) {
			t.Fatalf("room name not symmetric for %v", pair)
		}
	}
}

func TestRoomNameDistinctPairs(t *testing.T) {
	// Variable-length identities must not collide once joined.
	a := RoomName("1", "23")
	b := RoomName("12", "3")
	if a == b {
		t.Fatalf("distinct pairs share room name %q", a)
	}
}

func TestRoomNameForUsers(t *testing.T) {
	if RoomNameForUsers(2, 1) != RoomNameForUsers(1, 2) {
		t.Fatal("numeric room name not symmetric")
	}
}

func TestRoomIncludes(t *testing.T) {
	room := RoomNameForUsers(10, 25)
	if !RoomIncludes(room, 10) {
		t.Fatalf("expected user 10 to pass membership check for %s", room)
	}
	if RoomIncludes(room, 77) {
		t.Fatalf("expected user 77 to fail membership check for %s", room)
	}
}
