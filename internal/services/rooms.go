package services

import (
	"fmt"
	"sort"
	"strings"
)

// RoomName derives the chat room identifier for a pair of user identities.
// The identities are sorted before joining, so RoomName(a, b) == RoomName(b, a)
// and distinct pairs never share a room.
func RoomName(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}

// RoomNameForUsers is RoomName over numeric user ids.
func RoomNameForUsers(a, b uint) string {
	return RoomName(fmt.Sprint(a), fmt.Sprint(b))
}

// RoomIncludes is the membership check for raw room-name joins: the caller's
// identity must appear somewhere in the room name. This is the coarse check
// inherited from the room-naming scheme, not a verified participation test.
func RoomIncludes(roomName string, userID uint) bool {
	return strings.Contains(roomName, fmt.Sprint(userID))
}
