package room

import (
	"testing"

	"github.com/GreeFine/orim-back/internal/protocol"
)

func lockAction(ids ...protocol.ObjectID) protocol.Action {
	return protocol.Action{Type: protocol.ActionLock, Reference: ids}
}

func TestLockExclusivity(t *testing.T) {
	l := NewLedger()

	// A locks, B is rejected, B cannot unlock, A unlocks, then B may lock.
	if err := l.ApplyBatch("a", []protocol.Action{lockAction(1)}); err != nil {
		t.Fatalf("lock by a: %v", err)
	}

	err := l.ApplyBatch("b", []protocol.Action{lockAction(1)})
	if err == nil || err.Name != "LockConflict" {
		t.Fatalf("expected LockConflict for b, got %v", err)
	}

	err = l.ApplyBatch("b", []protocol.Action{{Type: protocol.ActionUnlock, Reference: []protocol.ObjectID{1}}})
	if err == nil || err.Name != "Forbidden" {
		t.Fatalf("expected Forbidden for b's unlock, got %v", err)
	}

	if err := l.ApplyBatch("a", []protocol.Action{{Type: protocol.ActionUnlock, Reference: []protocol.ObjectID{1}}}); err != nil {
		t.Fatalf("unlock by a: %v", err)
	}
	if err := l.ApplyBatch("b", []protocol.Action{lockAction(1)}); err != nil {
		t.Fatalf("lock by b after release: %v", err)
	}

	o, ok := l.Object(1)
	if !ok || o.LockHolder != "b" {
		t.Fatalf("expected b to hold the lock, got %+v", o)
	}
}

func TestRelockByHolderIsIdempotent(t *testing.T) {
	l := NewLedger()

	if err := l.ApplyBatch("a", []protocol.Action{lockAction(1)}); err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if err := l.ApplyBatch("a", []protocol.Action{lockAction(1)}); err != nil {
		t.Fatalf("re-lock by holder should succeed: %v", err)
	}
}

func TestUpdateCreatesUnseenObject(t *testing.T) {
	l := NewLedger()

	err := l.ApplyBatch("a", []protocol.Action{{
		Type:      protocol.ActionUpdate,
		Reference: []protocol.ObjectID{42},
		States:    []string{"circle"},
	}})
	if err != nil {
		t.Fatalf("update of unseen id: %v", err)
	}

	o, ok := l.Object(42)
	if !ok {
		t.Fatal("expected object 42 to be created")
	}
	if o.State != "circle" || o.LockHolder != "" {
		t.Fatalf("unexpected object: %+v", o)
	}
}

func TestUpdateLockedByOtherRejected(t *testing.T) {
	l := NewLedger()

	if err := l.ApplyBatch("a", []protocol.Action{lockAction(1)}); err != nil {
		t.Fatalf("lock: %v", err)
	}

	err := l.ApplyBatch("b", []protocol.Action{{
		Type:      protocol.ActionUpdate,
		Reference: []protocol.ObjectID{1},
		States:    []string{"x"},
	}})
	if err == nil || err.Name != "LockConflict" {
		t.Fatalf("expected LockConflict, got %v", err)
	}
}

func TestAtomicBatchRollsBack(t *testing.T) {
	l := NewLedger()

	// Seed object 2 with a known state.
	if err := l.ApplyBatch("a", []protocol.Action{{
		Type:      protocol.ActionUpdate,
		Reference: []protocol.ObjectID{2},
		States:    []string{"before"},
	}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Valid lock followed by an invalid update: nothing may stick.
	err := l.ApplyBatch("a", []protocol.Action{
		lockAction(1),
		{Type: protocol.ActionUpdate, Reference: []protocol.ObjectID{2}, States: []string{"x", "y"}},
	})
	if err == nil || err.Name != "ValidationError" {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if _, ok := l.Object(1); ok {
		t.Fatal("object 1 must not exist after an aborted batch")
	}
	o, _ := l.Object(2)
	if o.State != "before" {
		t.Fatalf("object 2 state changed by aborted batch: %q", o.State)
	}
}

func TestBatchSeesEarlierActions(t *testing.T) {
	l := NewLedger()

	// Lock then update in one batch: the update must see the requester as
	// the holder and succeed.
	err := l.ApplyBatch("a", []protocol.Action{
		lockAction(5),
		{Type: protocol.ActionUpdate, Reference: []protocol.ObjectID{5}, States: []string{"v2"}},
	})
	if err != nil {
		t.Fatalf("lock+update batch: %v", err)
	}

	o, _ := l.Object(5)
	if o.State != "v2" || o.LockHolder != "a" {
		t.Fatalf("unexpected object: %+v", o)
	}
}

func TestDeleteSemantics(t *testing.T) {
	l := NewLedger()

	if err := l.ApplyBatch("a", []protocol.Action{lockAction(1)}); err != nil {
		t.Fatalf("lock: %v", err)
	}

	// Locked by another client: forbidden.
	err := l.ApplyBatch("b", []protocol.Action{{Type: protocol.ActionDelete, Reference: []protocol.ObjectID{1}}})
	if err == nil || err.Name != "Forbidden" {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	// Holder may delete; unseen ids are a no-op.
	if err := l.ApplyBatch("a", []protocol.Action{{Type: protocol.ActionDelete, Reference: []protocol.ObjectID{1, 99}}}); err != nil {
		t.Fatalf("delete by holder: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d objects", l.Len())
	}
}

func TestBroadcastActionHasNoLedgerEffect(t *testing.T) {
	l := NewLedger()

	err := l.ApplyBatch("a", []protocol.Action{{
		Type:      protocol.ActionBroadcast,
		Reference: []protocol.ObjectID{1, 2, 3},
		States:    []string{"note"},
	}})
	if err != nil {
		t.Fatalf("broadcast action: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("broadcast must not create objects, got %d", l.Len())
	}
}

func TestReleaseLocks(t *testing.T) {
	l := NewLedger()

	if err := l.ApplyBatch("a", []protocol.Action{lockAction(1, 2)}); err != nil {
		t.Fatalf("lock: %v", err)
	}
	l.ReleaseLocks("a")

	for _, id := range []protocol.ObjectID{1, 2} {
		o, _ := l.Object(id)
		if o.LockHolder != "" {
			t.Fatalf("object %d still locked after release: %+v", id, o)
		}
	}
}
