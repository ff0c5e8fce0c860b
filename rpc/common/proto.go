package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Name   string `json:"name,omitempty"`   // Counter name, used by all counter operations
	Delta  int64  `json:"delta,omitempty"`  // Used for: AddAndGet, GetAndAdd requests
	Expect int64  `json:"expect,omitempty"` // Used for: CompareAndSet requests
	Value  int64  `json:"value,omitempty"`  // Used for: Set, CompareAndSet (request), value responses
	Token  string `json:"token,omitempty"`  // Bearer token identifying the principal (requests only)

	// Response only fields
	Ok  bool   `json:"ok,omitempty"`  // Used for: CompareAndSet responses
	Err string `json:"err,omitempty"` // Empty if no error, otherwise contains the error message

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Unused, can be used for additional task handlers
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewGetRequest creates a new Get request
func NewGetRequest(name string) *Message {
	return &Message{
		MsgType: MsgTCtrGet,
		Name:    name,
	}
}

// NewAddAndGetRequest creates a new AddAndGet request
func NewAddAndGetRequest(name string, delta int64) *Message {
	return &Message{
		MsgType: MsgTCtrAddAndGet,
		Name:    name,
		Delta:   delta,
	}
}

// NewGetAndAddRequest creates a new GetAndAdd request
func NewGetAndAddRequest(name string, delta int64) *Message {
	return &Message{
		MsgType: MsgTCtrGetAndAdd,
		Name:    name,
		Delta:   delta,
	}
}

// NewSetRequest creates a new Set request
func NewSetRequest(name string, value int64) *Message {
	return &Message{
		MsgType: MsgTCtrSet,
		Name:    name,
		Value:   value,
	}
}

// NewCompareAndSetRequest creates a new CompareAndSet request
func NewCompareAndSetRequest(name string, expect, update int64) *Message {
	return &Message{
		MsgType: MsgTCtrCAS,
		Name:    name,
		Expect:  expect,
		Value:   update,
	}
}

// NewDestroyRequest creates a new Destroy request
func NewDestroyRequest(name string) *Message {
	return &Message{
		MsgType: MsgTCtrDestroy,
		Name:    name,
	}
}

// NewValueResponse creates a response carrying a counter value
// (used for Get, AddAndGet, GetAndAdd and Set)
func NewValueResponse(msgType MessageType, value int64, err error) *Message {
	msg := &Message{
		MsgType: msgType,
		Value:   value,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewAckResponse creates a response without a payload
// (used for Destroy)
func NewAckResponse(msgType MessageType, err error) *Message {
	msg := &Message{
		MsgType: msgType,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewCompareAndSetResponse creates a new CompareAndSet response
func NewCompareAndSetResponse(swapped bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTCtrCAS,
		Ok:      swapped,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTCtrGet:
		return "get"
	case MsgTCtrAddAndGet:
		return "addAndGet"
	case MsgTCtrGetAndAdd:
		return "getAndAdd"
	case MsgTCtrSet:
		return "set"
	case MsgTCtrCAS:
		return "compareAndSet"
	case MsgTCtrDestroy:
		return "destroy"
	case MsgTCustom:
		return "custom"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "get":
		*t = MsgTCtrGet
	case "addAndGet":
		*t = MsgTCtrAddAndGet
	case "getAndAdd":
		*t = MsgTCtrGetAndAdd
	case "set":
		*t = MsgTCtrSet
	case "compareAndSet":
		*t = MsgTCtrCAS
	case "destroy":
		*t = MsgTCtrDestroy
	case "custom":
		*t = MsgTCustom
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IAtomicCounter operations

	MsgTCtrGet       // Read the counter value (committed through the log as a zero add)
	MsgTCtrAddAndGet // Add a delta, respond with the new value
	MsgTCtrGetAndAdd // Add a delta, respond with the old value
	MsgTCtrSet       // Set the counter unconditionally
	MsgTCtrCAS       // Set the counter if the current value matches
	MsgTCtrDestroy   // Destroy the counter

	// Custom operations

	MsgTCustom // Custom operation type
)
