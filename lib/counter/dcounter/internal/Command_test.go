package internal

import (
	"bytes"
	"testing"
)

// TestSizeBytes tests the SizeBytes method
func TestSizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		command  Command
		expected int
	}{
		{
			name: "Command with name",
			command: Command{
				Type: CommandTAddAndGet,
				Name: "visits",
				Arg1: 5,
			},
			expected: 1 + 8 + 8 + 4 + 6, // Type + Arg1 + Arg2 + NameLen + Name
		},
		{
			name: "Command with empty name",
			command: Command{
				Type: CommandTDestroy,
				Name: "",
			},
			expected: 1 + 8 + 8 + 4 + 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := tt.command.SizeBytes()
			if size != tt.expected {
				t.Errorf("SizeBytes() = %v, want %v", size, tt.expected)
			}
		})
	}
}

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{
			name: "Zero delta add (a committed read)",
			command: Command{
				Type: CommandTAddAndGet,
				Name: "visits",
				Arg1: 0,
			},
		},
		{
			name: "Negative delta",
			command: Command{
				Type: CommandTGetAndAdd,
				Name: "credits",
				Arg1: -17,
			},
		},
		{
			name: "CompareAndSet with both operands",
			command: Command{
				Type: CommandTCompareAndSet,
				Name: "generation",
				Arg1: 3,
				Arg2: 4,
			},
		},
		{
			name: "Destroy",
			command: Command{
				Type: CommandTDestroy,
				Name: "old-counter",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.command.Serialize()

			if len(data) != tt.command.SizeBytes() {
				t.Errorf("Serialize() produced %d bytes, SizeBytes() says %d", len(data), tt.command.SizeBytes())
			}

			var result Command
			if err := result.Deserialize(data); err != nil {
				t.Fatalf("Deserialize() failed: %v", err)
			}

			if result != tt.command {
				t.Errorf("Command doesn't match after round trip:\nOriginal: %+v\nResult: %+v", tt.command, result)
			}
		})
	}
}

// TestDeserializeErrors tests that malformed byte arrays are rejected
func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "Empty data", data: []byte{}},
		{name: "Truncated header", data: make([]byte, 20)},
		{name: "Name length beyond data", data: append(make([]byte, 17), 0, 0, 0, 42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cmd Command
			if err := cmd.Deserialize(tt.data); err == nil {
				t.Error("expected error for malformed data, got nil")
			}
		})
	}
}

// TestValuePayload tests the result payload helpers
func TestValuePayload(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		data := EncodeValue(v)
		got, err := DecodeValue(data)
		if err != nil {
			t.Fatalf("DecodeValue(%v) failed: %v", data, err)
		}
		if got != v {
			t.Errorf("value round trip: got %d, want %d", got, v)
		}
	}

	if _, err := DecodeValue([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short value payload")
	}

	for _, b := range []bool{true, false} {
		got, err := DecodeBool(EncodeBool(b))
		if err != nil {
			t.Fatalf("DecodeBool failed: %v", err)
		}
		if got != b {
			t.Errorf("bool round trip: got %v, want %v", got, b)
		}
	}

	if !bytes.Equal(EncodeBool(true), []byte{1}) {
		t.Error("EncodeBool(true) must be a single 0x01 byte")
	}
}
