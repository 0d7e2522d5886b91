package wire

// Buffer is the transferable resource: an owned byte payload that a channel
// either clones (default) or moves (when listed in the transfer set). After a
// move the source buffer is detached and must not be used again.
type Buffer struct {
	data  []byte
	moved bool
}

// NewBuffer takes ownership of data. The caller must not retain the slice.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the payload, or nil once the buffer has been moved.
func (b *Buffer) Bytes() []byte {
	if b.moved {
		return nil
	}
	return b.data
}

// Len returns the payload length, zero once moved.
func (b *Buffer) Len() int { return len(b.Bytes()) }

// Moved reports whether ownership has been transferred to a peer.
func (b *Buffer) Moved() bool { return b.moved }

// Clone returns an independent copy of the payload. Cloning a moved buffer
// yields an empty buffer.
func (b *Buffer) Clone() *Buffer {
	if b.moved {
		return &Buffer{}
	}
	dup := make([]byte, len(b.data))
	copy(dup, b.data)
	return &Buffer{data: dup}
}

// Take moves the payload into a new buffer and detaches the source. The
// underlying bytes are not copied — this is the zero-copy handoff.
func (b *Buffer) Take() *Buffer {
	if b.moved {
		return &Buffer{}
	}
	moved := &Buffer{data: b.data}
	b.data = nil
	b.moved = true
	return moved
}
