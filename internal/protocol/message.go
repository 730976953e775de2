package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ObjectID identifies a shared object inside one room's ledger.
type ObjectID uint32

type ActionType string

const (
	ActionLock      ActionType = "Lock"
	ActionUnlock    ActionType = "Unlock"
	ActionUpdate    ActionType = "Update"
	ActionDelete    ActionType = "Delete"
	ActionBroadcast ActionType = "Broadcast"
)

// errUnknownAction marks a decode failure caused by an action type outside
// the closed set, so Decode can report it as a 400 instead of a parse error.
type errUnknownAction struct{ got string }

func (e *errUnknownAction) Error() string { return "unknown action type " + e.got }

func (t *ActionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch ActionType(s) {
	case ActionLock, ActionUnlock, ActionUpdate, ActionDelete, ActionBroadcast:
		*t = ActionType(s)
		return nil
	}
	return &errUnknownAction{got: s}
}

// Action is one instruction within a message batch.
type Action struct {
	Type      ActionType `json:"type"`
	Reference []ObjectID `json:"reference"`
	States    []string   `json:"states"`
}

// Message is the client -> server wire frame: an ordered action batch,
// applied atomically.
type Message struct {
	Version      int      `json:"version"`
	ObjectUpdate []Action `json:"object_update"`
}

// Decode parses a raw text frame into a Message. Failures come back as a
// *WSError destined for the sender only.
func Decode(raw []byte) (Message, *WSError) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		var unknown *errUnknownAction
		if errors.As(err, &unknown) {
			return Message{}, UnknownAction(unknown.got)
		}
		return Message{}, Malformed(err)
	}
	return msg, nil
}

// Encode re-serializes an accepted message for fan-out, prefixed with the
// room id the same way the welcome notice is.
func Encode(roomID string, msg Message) []byte {
	raw, _ := json.Marshal(msg)
	return fmt.Appendf(nil, "[%s] %s", roomID, raw)
}
