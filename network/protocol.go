package network

import (
	"encoding/binary"
	"errors"
	"io"
)

// Wire frame: [type:1][flags:1][seq:4][ack:4][len:2][payload:len], big-endian
const (
	HeaderSize     = 12
	MaxPayloadSize = 1<<16 - 1
)

// MessageType tags a frame
type MessageType uint8

const (
	MsgHeartbeat  MessageType = 0x01
	MsgConnect    MessageType = 0x02
	MsgDisconnect MessageType = 0x03

	// MsgEffect carries one JSON effect packet
	MsgEffect MessageType = 0x12
)

const (
	FlagNone    uint8 = 0
	FlagRelayed uint8 = 1 << 0 // forwarded by the server for another peer
)

var ErrPayloadTooLarge = errors.New("payload exceeds maximum size")

// Message is one decoded frame
// Seq and Ack are assigned per connection when the frame is queued
type Message struct {
	Type    MessageType
	Flags   uint8
	Seq     uint32
	Ack     uint32
	Payload []byte
}

// NewMessage returns an unflagged frame of type t
func NewMessage(t MessageType, payload []byte) *Message {
	return &Message{Type: t, Payload: payload}
}

func (m *Message) header() (h [HeaderSize]byte) {
	h[0] = byte(m.Type)
	h[1] = m.Flags
	binary.BigEndian.PutUint32(h[2:], m.Seq)
	binary.BigEndian.PutUint32(h[6:], m.Ack)
	binary.BigEndian.PutUint16(h[10:], uint16(len(m.Payload)))
	return h
}

// Encode writes header and payload as a single write
func (m *Message) Encode(w io.Writer) error {
	if len(m.Payload) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	h := m.header()
	frame := append(h[:], m.Payload...)
	_, err := w.Write(frame)
	return err
}

// Decode reads one frame; a short read returns io.ErrUnexpectedEOF
func Decode(r io.Reader) (*Message, error) {
	var h [HeaderSize]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return nil, err
	}

	m := &Message{
		Type:  MessageType(h[0]),
		Flags: h[1],
		Seq:   binary.BigEndian.Uint32(h[2:]),
		Ack:   binary.BigEndian.Uint32(h[6:]),
	}
	if n := binary.BigEndian.Uint16(h[10:]); n > 0 {
		m.Payload = make([]byte, n)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}
	return m, nil
}
