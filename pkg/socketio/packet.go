package socketio

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/vango-dev/socketio/internal/errors"
)

// Packet is one event on the wire.
type Packet struct {
	Event string
	Args  []json.RawMessage
}

// NewPacket encodes args into a packet for event.
func NewPacket(event string, args ...any) (Packet, error) {
	p := Packet{Event: event, Args: make([]json.RawMessage, 0, len(args))}
	for i, arg := range args {
		raw, err := json.Marshal(arg)
		if err != nil {
			return Packet{}, errors.New("E321").
				WithDetail("argument " + strconv.Itoa(i) + " of " + event).
				Wrap(err)
		}
		p.Args = append(p.Args, raw)
	}
	return p, nil
}

// MarshalJSON encodes the packet as ["event", ...args].
func (p Packet) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	name, err := json.Marshal(p.Event)
	if err != nil {
		return nil, err
	}
	b.WriteByte('[')
	b.Write(name)
	for _, arg := range p.Args {
		b.WriteByte(',')
		if len(arg) == 0 {
			b.WriteString("null")
			continue
		}
		b.Write(arg)
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes ["event", ...args]. The first element must be a
// non-empty string.
func (p *Packet) UnmarshalJSON(data []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return errors.New("E320").WithDetail("packet is not a JSON array").Wrap(err)
	}
	if len(elems) == 0 {
		return errors.New("E320").WithDetail("packet is empty")
	}
	var event string
	if err := json.Unmarshal(elems[0], &event); err != nil || event == "" {
		return errors.New("E320").WithDetail("event name must be a non-empty string")
	}
	p.Event = event
	p.Args = elems[1:]
	return nil
}

// DecodePacket parses a text frame.
func DecodePacket(data []byte) (Packet, error) {
	var p Packet
	if err := p.UnmarshalJSON(data); err != nil {
		return Packet{}, err
	}
	return p, nil
}

// Encode returns the text frame for p.
func (p Packet) Encode() []byte {
	// MarshalJSON only fails on an unencodable event name, which a string
	// never is.
	b, _ := p.MarshalJSON()
	return b
}
