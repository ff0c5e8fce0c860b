package internal

import (
	"encoding/binary"
	"fmt"
)

// CommandType defines the possible operations for the counter state machine.
type CommandType uint8

const (
	CommandTAddAndGet     CommandType = iota // Add a delta, return the new value.
	CommandTGetAndAdd                        // Add a delta, return the old value.
	CommandTSet                              // Set the counter unconditionally.
	CommandTCompareAndSet                    // Set the counter if the current value matches.
	CommandTDestroy                          // Destroy the counter.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTAddAndGet:
		return "AddAndGet"
	case CommandTGetAndAdd:
		return "GetAndAdd"
	case CommandTSet:
		return "Set"
	case CommandTCompareAndSet:
		return "CompareAndSet"
	case CommandTDestroy:
		return "Destroy"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// Command represents a command to be executed by the counter state machine
// (a single entry in the raft log). Arg1 and Arg2 are operand values whose
// meaning depends on Type: delta for the add commands, the new value for Set,
// expect/update for CompareAndSet. A read is an AddAndGet command with a zero
// Arg1, so it commits through the log like every write.
type Command struct {
	Type CommandType
	Name string
	Arg1 int64
	Arg2 int64
}

// SizeBytes returns the exact number of bytes needed to serialize this command
func (command *Command) SizeBytes() int {
	return 1 + 8 + 8 + 4 + len(command.Name) // Type + Arg1 + Arg2 + NameLen + Name
}

// Serialize serializes a command into a byte array with the format:
// 1 byte for operation type,
// 8 bytes for Arg1 (int64 as big endian uint64),
// 8 bytes for Arg2 (int64 as big endian uint64),
// 4 bytes for name length (big endian),
// N bytes for name data
func (command *Command) Serialize() []byte {
	result := make([]byte, command.SizeBytes())

	// Set operation type
	result[0] = byte(command.Type)

	// Set operands
	binary.BigEndian.PutUint64(result[1:9], uint64(command.Arg1))
	binary.BigEndian.PutUint64(result[9:17], uint64(command.Arg2))

	// Set name length (4 bytes, big endian)
	binary.BigEndian.PutUint32(result[17:21], uint32(len(command.Name)))

	// Copy name bytes
	copy(result[21:], command.Name)

	return result
}

// Deserialize extracts all Command fields from a byte array.
func (command *Command) Deserialize(data []byte) error {
	// Minimum size: 1 (Type) + 8 (Arg1) + 8 (Arg2) + 4 (NameLen) = 21 bytes
	if len(data) < 21 {
		return fmt.Errorf("data too short for command")
	}

	// Extract operation type
	command.Type = CommandType(data[0])

	// Extract operands
	command.Arg1 = int64(binary.BigEndian.Uint64(data[1:9]))
	command.Arg2 = int64(binary.BigEndian.Uint64(data[9:17]))

	// Extract name length
	nameLen := binary.BigEndian.Uint32(data[17:21])

	// Validate name length
	if len(data) < 21+int(nameLen) {
		return fmt.Errorf("data too short for name of length %d", nameLen)
	}

	// Extract name
	command.Name = string(data[21 : 21+nameLen])

	return nil
}

// --------------------------------------------------------------------------
// Result payload helpers
// --------------------------------------------------------------------------

// EncodeValue encodes a counter value as the 8-byte result payload of a
// committed command.
func EncodeValue(value int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(value))
	return buf
}

// DecodeValue decodes the 8-byte result payload of a committed command.
func DecodeValue(data []byte) (int64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid value payload length %d", len(data))
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}

// EncodeBool encodes a CompareAndSet outcome as a 1-byte result payload.
func EncodeBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeBool decodes a 1-byte CompareAndSet result payload.
func DecodeBool(data []byte) (bool, error) {
	if len(data) != 1 {
		return false, fmt.Errorf("invalid bool payload length %d", len(data))
	}
	return data[0] == 1, nil
}
