package services

import (
	"fmt"
	"sync"
	"testing"
)

func containsUser(users []uint, userID uint) bool {
	for _, u := range users {
		if u == userID {
			return true
		}
	}
	return false
}

func TestPresenceAddRemove(t *testing.T) {
	p := NewPresence()

	p.Add("conn-1", 1)
	if !containsUser(p.ActiveUsers(), 1) {
		t.Fatal("expected user 1 active after Add")
	}

	userID, ok := p.Remove("conn-1")
	if !ok || userID != 1 {
		t.Fatalf("expected Remove to return user 1, got %d %v", userID, ok)
	}
	if containsUser(p.ActiveUsers(), 1) {
		t.Fatal("expected user 1 gone after Remove")
	}
}

func TestPresenceRemoveUnknownConnection(t *testing.T) {
	p := NewPresence()
	if _, ok := p.Remove("never-added"); ok {
		t.Fatal("expected Remove of unknown connection to report false")
	}
}

func TestPresenceDeduplicatesUsers(t *testing.T) {
	p := NewPresence()
	p.Add("conn-1", 7)
	p.Add("conn-2", 7)

	users := p.ActiveUsers()
	if len(users) != 1 || users[0] != 7 {
		t.Fatalf("expected single deduplicated entry for user 7, got %v", users)
	}

	// User stays active while another connection remains.
	p.Remove("conn-1")
	if !containsUser(p.ActiveUsers(), 7) {
		t.Fatal("expected user 7 still active with one connection left")
	}
}

func TestPresenceConcurrentAddRemove(t *testing.T) {
	p := NewPresence()
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			p.Add(connID, uint(i))
			if i%2 == 0 {
				if userID, ok := p.Remove(connID); !ok || userID != uint(i) {
					t.Errorf("connection %s: Remove returned %d %v", connID, userID, ok)
				}
			}
		}(i)
	}
	wg.Wait()

	users := p.ActiveUsers()
	for i := 0; i < workers; i++ {
		active := containsUser(users, uint(i))
		if i%2 == 0 && active {
			t.Fatalf("user %d should have been removed", i)
		}
		if i%2 == 1 && !active {
			t.Fatalf("user %d dropped despite never being removed", i)
		}
	}
}
