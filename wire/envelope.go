// Package wire defines the message unit exchanged between a controller and a
// worker, and the minimal contract an underlying channel must satisfy.
//
// Every message is one Envelope. The Kind tag makes the envelope's role
// explicit, so a response whose id matches nothing can never be mistaken for
// an event:
//
//	Call      controller → worker   Topic + Data, ID > 0 iff a response is expected
//	Response  worker → controller   ID + Result, or ID + Error on failure
//	Event     worker → controller   Topic + Data, unsolicited
//	Port      controller → worker   Port carries one end of a fresh sub-channel
package wire

import (
	"errors"
	"fmt"
)

// Kind identifies the single semantic role an envelope carries.
type Kind uint8

const (
	KindCall     Kind = iota // method invocation, correlated iff ID > 0
	KindResponse             // result or error for a correlated call
	KindEvent                // unsolicited event published under Topic
	KindPort                 // sub-channel handoff
)

func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindResponse:
		return "response"
	case KindEvent:
		return "event"
	case KindPort:
		return "port"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ErrChannelClosed is returned by Send on a closed channel and delivered to
// every pending call when a controller shuts down.
var ErrChannelClosed = errors.New("wire: channel closed")

// Envelope is the unit exchanged over a channel.
//
//   - On call:     Topic and Data are set; ID is non-zero iff correlated.
//   - On response: ID matches the call, Result holds the value, Error is
//     non-empty if the handler failed. Never both Result and Error.
//   - On event:    Topic and Data are set; ID is zero.
//   - On port:     Port holds one endpoint of a new sub-channel.
type Envelope struct {
	Kind   Kind
	Topic  string
	Data   []any   // call/event arguments, in order
	Result any     // response value
	ID     uint64  // correlation id, zero means none (ids start at 1)
	Error  string  // non-empty iff a correlated call failed
	Port   Channel // set iff Kind == KindPort
}

// Channel is the collaborator contract for the transport underneath an
// adapter. Send delivers one envelope to the peer's receive handler, copying
// by default and moving any listed transferable buffers. OnReceive registers
// the single handler invoked once per inbound envelope, in arrival order;
// envelopes that arrive before a handler is bound are queued, not dropped.
type Channel interface {
	Send(env *Envelope, transfer []*Buffer) error
	OnReceive(handler func(*Envelope))
	Close() error
}

// RemoteError carries a peer-side failure back to the caller. Only the error
// text crosses the channel; type identity is not preserved.
type RemoteError struct {
	Topic   string
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// NewCall builds a call envelope, unwrapping a leading Transferable into the
// payload and transfer set. id zero makes it fire-and-forget.
func NewCall(topic string, id uint64, args []any) (*Envelope, []*Buffer) {
	data, transfer := splitTransfer(args)
	return &Envelope{Kind: KindCall, Topic: topic, ID: id, Data: data}, transfer
}

// NewEvent builds an event envelope with the same transfer convention as calls.
func NewEvent(topic string, args []any) (*Envelope, []*Buffer) {
	data, transfer := splitTransfer(args)
	return &Envelope{Kind: KindEvent, Topic: topic, Data: data}, transfer
}

// NewResponse builds the success response for call id. A Transferable result
// is unwrapped the same way a Transferable argument list is.
func NewResponse(id uint64, result any) (*Envelope, []*Buffer) {
	if t, ok := result.(*Transferable); ok {
		return &Envelope{Kind: KindResponse, ID: id, Result: t.Value()}, t.Resources
	}
	return &Envelope{Kind: KindResponse, ID: id, Result: result}, nil
}

// NewErrorResponse builds the failure response for call id.
func NewErrorResponse(id uint64, err error) *Envelope {
	return &Envelope{Kind: KindResponse, ID: id, Error: err.Error()}
}

// NewPort builds the handoff envelope for one end of a sub-channel.
func NewPort(end Channel) *Envelope {
	return &Envelope{Kind: KindPort, Port: end}
}
