package protocol

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WSError is the structured rejection sent to the offending client. It never
// reaches other room members.
type WSError struct {
	Name       string `json:"name"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *WSError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.StatusCode, e.Message)
}

// JSON returns the wire form of the rejection.
func (e *WSError) JSON() []byte {
	raw, _ := json.Marshal(e)
	return raw
}

func Malformed(err error) *WSError {
	return &WSError{
		Name:       "MalformedMessage",
		StatusCode: http.StatusBadRequest,
		Message:    "unable to parse message JSON: " + err.Error(),
	}
}

func UnknownAction(got string) *WSError {
	return &WSError{
		Name:       "UnknownActionType",
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf("action type %q is not one of Lock, Unlock, Update, Delete, Broadcast", got),
	}
}

func LockConflict(index int, typ ActionType, id ObjectID) *WSError {
	return &WSError{
		Name:       "LockConflict",
		StatusCode: http.StatusConflict,
		Message:    fmt.Sprintf("action %d (%s): object %d is locked by another client", index, typ, id),
	}
}

func NotHolder(index int, typ ActionType, id ObjectID) *WSError {
	return &WSError{
		Name:       "Forbidden",
		StatusCode: http.StatusForbidden,
		Message:    fmt.Sprintf("action %d (%s): object %d is not locked by the requester", index, typ, id),
	}
}

func Validation(index int, typ ActionType, detail string) *WSError {
	return &WSError{
		Name:       "ValidationError",
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf("action %d (%s): %s", index, typ, detail),
	}
}

// HTTPError is the JSON body for pre-upgrade failures (room not found, bad
// route, bad method, recovered panic).
type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WriteHTTP sends the error with its status code and JSON body.
func WriteHTTP(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(HTTPError{Code: code, Message: message})
}
