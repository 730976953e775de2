package room

import (
	"github.com/GreeFine/orim-back/internal/protocol"
)

// Object is a shared editable entity. An empty lockHolder means unlocked.
type Object struct {
	ID         protocol.ObjectID
	State      string
	LockHolder string
}

// Ledger holds one room's objects. It is not self-locking: the owning Room
// serializes access under its own mutex.
type Ledger struct {
	objects map[protocol.ObjectID]*Object
}

func NewLedger() *Ledger {
	return &Ledger{objects: map[protocol.ObjectID]*Object{}}
}

// Object returns a copy of the object, if present.
func (l *Ledger) Object(id protocol.ObjectID) (Object, bool) {
	o := l.objects[id]
	if o == nil {
		return Object{}, false
	}
	return *o, true
}

func (l *Ledger) Len() int { return len(l.objects) }

// ApplyBatch validates and applies every action in list order, each against
// the view already mutated by its predecessors. The batch is staged on a copy
// and committed only when every action validates, so a rejection leaves the
// ledger untouched.
func (l *Ledger) ApplyBatch(clientID string, actions []protocol.Action) *protocol.WSError {
	staged := l.clone()
	for i, a := range actions {
		if err := staged.apply(clientID, i, a); err != nil {
			return err
		}
	}
	l.objects = staged.objects
	return nil
}

func (l *Ledger) clone() *Ledger {
	objects := make(map[protocol.ObjectID]*Object, len(l.objects))
	for id, o := range l.objects {
		cp := *o
		objects[id] = &cp
	}
	return &Ledger{objects: objects}
}

func (l *Ledger) apply(clientID string, index int, a protocol.Action) *protocol.WSError {
	switch a.Type {
	case protocol.ActionLock:
		return l.lock(clientID, index, a)
	case protocol.ActionUnlock:
		return l.unlock(clientID, index, a)
	case protocol.ActionUpdate:
		return l.update(clientID, index, a)
	case protocol.ActionDelete:
		return l.delete(clientID, index, a)
	case protocol.ActionBroadcast:
		// Opaque pass-through, no ledger effect.
		return nil
	}
	return protocol.UnknownAction(string(a.Type))
}

// lock grants the requester exclusivity. Re-locking an object the requester
// already holds is idempotent; an unseen id is created unlocked first.
func (l *Ledger) lock(clientID string, index int, a protocol.Action) *protocol.WSError {
	for _, id := range a.Reference {
		o := l.objects[id]
		if o == nil {
			o = &Object{ID: id}
			l.objects[id] = o
		}
		if o.LockHolder != "" && o.LockHolder != clientID {
			return protocol.LockConflict(index, a.Type, id)
		}
		o.LockHolder = clientID
	}
	return nil
}

func (l *Ledger) unlock(clientID string, index int, a protocol.Action) *protocol.WSError {
	for _, id := range a.Reference {
		o := l.objects[id]
		if o == nil || o.LockHolder != clientID {
			return protocol.NotHolder(index, a.Type, id)
		}
		o.LockHolder = ""
	}
	return nil
}

// update replaces object states pairwise. A reference to an unseen id creates
// the object on the spot.
func (l *Ledger) update(clientID string, index int, a protocol.Action) *protocol.WSError {
	if len(a.States) != len(a.Reference) {
		return protocol.Validation(index, a.Type,
			"reference and states must have the same length")
	}
	for i, id := range a.Reference {
		o := l.objects[id]
		if o == nil {
			o = &Object{ID: id}
			l.objects[id] = o
		}
		if o.LockHolder != "" && o.LockHolder != clientID {
			return protocol.LockConflict(index, a.Type, id)
		}
		o.State = a.States[i]
	}
	return nil
}

// delete removes objects. Deleting an id that was never created is a no-op;
// deleting an object locked by someone else is forbidden.
func (l *Ledger) delete(clientID string, index int, a protocol.Action) *protocol.WSError {
	for _, id := range a.Reference {
		o := l.objects[id]
		if o == nil {
			continue
		}
		if o.LockHolder != "" && o.LockHolder != clientID {
			return protocol.NotHolder(index, a.Type, id)
		}
		delete(l.objects, id)
	}
	return nil
}

// ReleaseLocks clears every lock held by clientID, keeping the ledger's
// holder invariant when a client leaves the room.
func (l *Ledger) ReleaseLocks(clientID string) {
	for _, o := range l.objects {
		if o.LockHolder == clientID {
			o.LockHolder = ""
		}
	}
}
