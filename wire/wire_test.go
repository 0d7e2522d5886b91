package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestBufferCloneIsIndependent(t *testing.T) {
	b := NewBuffer([]byte("payload"))
	c := b.Clone()

	if !bytes.Equal(c.Bytes(), []byte("payload")) {
		t.Fatalf("clone payload mismatch: got %q", c.Bytes())
	}

	// Mutating the clone must not touch the original.
	c.Bytes()[0] = 'X'
	if got := string(b.Bytes()); got != "payload" {
		t.Errorf("original changed after clone mutation: %q", got)
	}
}

func TestBufferTakeDetachesSource(t *testing.T) {
	b := NewBuffer([]byte("payload"))
	moved := b.Take()

	if !b.Moved() {
		t.Error("source should report moved")
	}
	if b.Bytes() != nil {
		t.Errorf("source should be unusable after move, got %q", b.Bytes())
	}
	if got := string(moved.Bytes()); got != "payload" {
		t.Errorf("moved buffer payload mismatch: got %q", got)
	}
	if b.Len() != 0 {
		t.Errorf("moved source length should be 0, got %d", b.Len())
	}
}

func TestBufferTakeTwice(t *testing.T) {
	b := NewBuffer([]byte("payload"))
	b.Take()
	second := b.Take()
	if second.Len() != 0 {
		t.Errorf("second take should yield empty buffer, got %d bytes", second.Len())
	}
}

func TestNewCallUnwrapsLeadingTransferable(t *testing.T) {
	buf := NewBuffer([]byte("big"))
	env, transfer := NewCall("process", 7, []any{Transfer([]any{buf, 42}, buf)})

	if env.Kind != KindCall || env.Topic != "process" || env.ID != 7 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if len(env.Data) != 2 {
		t.Fatalf("expect 2 args, got %d", len(env.Data))
	}
	if env.Data[0] != buf || env.Data[1] != 42 {
		t.Errorf("args not unwrapped: %+v", env.Data)
	}
	if len(transfer) != 1 || transfer[0] != buf {
		t.Errorf("transfer set not extracted: %+v", transfer)
	}
}

func TestTransferableOnlyRecognizedFirst(t *testing.T) {
	buf := NewBuffer([]byte("big"))
	marker := Transfer([]any{buf}, buf)
	env, transfer := NewCall("process", 1, []any{"lead", marker})

	if transfer != nil {
		t.Errorf("marker in second position must not produce a transfer set")
	}
	if env.Data[1] != marker {
		t.Errorf("marker should cross as a plain value when not first")
	}
}

func TestNewResponseUnwrapsTransferableResult(t *testing.T) {
	buf := NewBuffer([]byte("result"))
	env, transfer := NewResponse(3, Transfer([]any{buf}, buf))

	if env.Kind != KindResponse || env.ID != 3 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Result != buf {
		t.Errorf("single transferred value should be unwrapped, got %+v", env.Result)
	}
	if len(transfer) != 1 || transfer[0] != buf {
		t.Errorf("transfer set not extracted: %+v", transfer)
	}
}

func TestNewErrorResponse(t *testing.T) {
	env := NewErrorResponse(9, errors.New("bad"))
	if env.Kind != KindResponse || env.ID != 9 || env.Error != "bad" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Result != nil {
		t.Error("error response must not carry a result")
	}
}

func TestRemoteError(t *testing.T) {
	err := &RemoteError{Topic: "add", Message: "bad"}
	if err.Error() != "bad" {
		t.Errorf("expect value-shaped message, got %q", err.Error())
	}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindCall, "call"},
		{KindResponse, "response"},
		{KindEvent, "event"},
		{KindPort, "port"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d): expect %q, got %q", tc.kind, tc.want, got)
		}
	}
}
