package proto

import (
	"bytes"
	"math/big"
	"testing"
)

// collectingWriter records every slice it is handed and accepts all of
// it, mirroring a well-behaved socket write.
func collectingWriter(writes *[][]byte) Writer {
	return func(p []byte) (int, error) {
		cp := append([]byte(nil), p...)
		*writes = append(*writes, cp)
		return len(p), nil
	}
}

func TestBuilderMGetNoN(t *testing.T) {
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), 1024)
	if _, err := b.AddMGet([]byte("key01"), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte("mg key01 v\r\n")) {
		t.Fatalf("writes = %q", writes)
	}
}

func TestBuilderMGetWithN(t *testing.T) {
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), 1024)
	n := int64(12)
	if _, err := b.AddMGet([]byte("key01"), &n); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte("mg key01 N12 v\r\n")) {
		t.Fatalf("writes = %q", writes)
	}
}

func TestBuilderMSetNoCAS(t *testing.T) {
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), 1024)
	if _, err := b.AddMSet([]byte("key01"), []byte("value"), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte("ms key01 5\r\nvalue\r\n")) {
		t.Fatalf("writes = %q", writes)
	}
}

func TestBuilderMSetLargeCAS(t *testing.T) {
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), 1024)
	cas, ok := new(big.Int).SetString("9223372036854775809", 10)
	if !ok {
		t.Fatal("bad literal")
	}
	if _, err := b.AddMSet([]byte("key01"), []byte("data 01"), cas); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	want := []byte("ms key01 7 C9223372036854775809\r\ndata 01\r\n")
	if len(writes) != 1 || !bytes.Equal(writes[0], want) {
		t.Fatalf("writes = %q, want %q", writes, want)
	}
}

func TestBuilderDelete(t *testing.T) {
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), 1024)
	if _, err := b.AddDelete([]byte("key01")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte("md key01\r\n")) {
		t.Fatalf("writes = %q", writes)
	}
}

// TestBuilderExactCapacityDefersFlush verifies that filling the staging
// buffer to exactly its capacity does not flush until the next add call
// needs room for more bytes.
func TestBuilderExactCapacityDefersFlush(t *testing.T) {
	cmd1 := []byte("mg key01 v\r\n")
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), len(cmd1))

	result, err := b.AddMGet([]byte("key01"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result != NotFlushed || len(writes) != 0 {
		t.Fatalf("after first add: result=%v writes=%q, want NotFlushed and no writes", result, writes)
	}

	result, err = b.AddMGet([]byte("k2"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result != Flushed || len(writes) != 1 || !bytes.Equal(writes[0], cmd1) {
		t.Fatalf("after second add: result=%v writes=%q", result, writes)
	}

	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 2 || !bytes.Equal(writes[1], []byte("mg k2 v\r\n")) {
		t.Fatalf("after finish: writes=%q", writes)
	}
}

// TestBuilderSplitMidCommand verifies a single command spanning the
// buffer boundary is split at exactly the boundary.
func TestBuilderSplitMidCommand(t *testing.T) {
	cmd1 := []byte("mg key01 v\r\n") // 12 bytes
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), len(cmd1)+1)

	if _, err := b.AddMGet([]byte("key01"), nil); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 0 {
		t.Fatalf("writes after first add = %q, want none", writes)
	}

	result, err := b.AddMGet([]byte("k2"), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("mg key01 v\r\nm")
	if result != Flushed || len(writes) != 1 || !bytes.Equal(writes[0], want) {
		t.Fatalf("result=%v writes=%q, want single write %q", result, writes, want)
	}

	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 2 || !bytes.Equal(writes[1], []byte("g k2 v\r\n")) {
		t.Fatalf("writes after finish = %q", writes)
	}
}

// TestBuilderLargeValueSplitsAcrossMultipleWrites verifies a value much
// larger than the staging buffer is emitted as a sequence of writes
// whose concatenation reconstructs the exact wire image.
func TestBuilderLargeValueSplitsAcrossMultipleWrites(t *testing.T) {
	value := bytes.Repeat([]byte("A"), 97)
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), 29)

	if _, err := b.AddMSet([]byte("key01"), value, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}

	if len(writes) != 4 {
		t.Fatalf("got %d writes, want 4: %q", len(writes), writes)
	}
	var got []byte
	for _, w := range writes {
		got = append(got, w...)
	}
	want := append([]byte("ms key01 97\r\n"), value...)
	want = append(want, '\r', '\n')
	if !bytes.Equal(got, want) {
		t.Fatalf("reassembled = %q, want %q", got, want)
	}
}

// TestBuilderWriteStalled verifies a writer that accepts nothing while
// bytes remain staged reports WriteStalled and stops the in-progress
// call without staging further bytes.
func TestBuilderWriteStalled(t *testing.T) {
	deadSink := func(p []byte) (int, error) { return 0, nil }
	b := NewBuilder(deadSink, 4)

	result, err := b.AddMGet([]byte("key01"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result != WriteStalled {
		t.Fatalf("result = %v, want WriteStalled", result)
	}
}

func TestBuilderPartialWriteCompaction(t *testing.T) {
	var calls int
	partial := func(p []byte) (int, error) {
		calls++
		if calls == 1 {
			return 2, nil // accept only half of a 4-byte buffer
		}
		return len(p), nil
	}
	b := NewBuilder(partial, 4)

	if _, err := b.AddDelete([]byte("ab")); err != nil { // "md ab\r\n" = 7 bytes, cap 4
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if calls < 2 {
		t.Fatalf("calls = %d, want at least 2 (a partial write forcing compaction)", calls)
	}
}

func TestBuilderInvalidCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for capacity < 1")
		}
	}()
	NewBuilder(func(p []byte) (int, error) { return len(p), nil }, 0)
}

func TestBuilderFlushCount(t *testing.T) {
	var writes [][]byte
	b := NewBuilder(collectingWriter(&writes), 1024)
	if _, err := b.AddMGet([]byte("key01"), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if b.FlushCount() != 1 {
		t.Fatalf("FlushCount() = %d, want 1", b.FlushCount())
	}
}
