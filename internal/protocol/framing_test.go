package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"testing"
)

func TestFraming_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := Request{ID: 7, Action: ActionCopy, SourceURL: "https://example.com/a"}
	if err := WriteMessage(&buf, in); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}

	raw, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	var out Request
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("frame body is not JSON: %v", err)
	}
	if out != in {
		t.Errorf("round trip changed message: got %+v, want %+v", out, in)
	}
}

func TestReadMessage_CleanEOF(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader(nil))
	if !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF at a frame boundary", err)
	}
}

func TestReadMessage_TruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], 100)
	buf.Write(lenBuf[:])
	buf.WriteString("short")

	_, err := ReadMessage(&buf)
	if err == nil || errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want a mid-frame error distinct from io.EOF", err)
	}
}

func TestReadMessage_OversizedFrame(t *testing.T) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], MaxMessageSize+1)

	_, err := ReadMessage(bytes.NewReader(lenBuf[:]))
	if err == nil {
		t.Error("oversized frame should be rejected before any allocation")
	}
}
