package receiver

import (
	"errors"
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"eos-mcp/internal/feedback"
)

// DecodeError is a datagram that could not be parsed as OSC.
type DecodeError struct {
	Size int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %d byte datagram: %v", e.Size, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Datagram is one decoded OSC message: a topic and its positional arguments.
type Datagram struct {
	Topic     string
	Arguments []feedback.Argument
}

// Decode parses an OSC packet. Bundles are flattened depth-first in order.
func Decode(data []byte) (out []Datagram, err error) {
	if len(data) == 0 {
		return nil, &DecodeError{Size: 0, Err: errors.New("empty datagram")}
	}
	// malformed packets must never take down the receive loop
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &DecodeError{Size: len(data), Err: fmt.Errorf("parser panic: %v", p)}
		}
	}()

	pkt, err := osc.ParsePacket(string(data))
	if err != nil {
		return nil, &DecodeError{Size: len(data), Err: err}
	}
	switch p := pkt.(type) {
	case *osc.Message:
		return []Datagram{fromMessage(p)}, nil
	case *osc.Bundle:
		return flatten(p, nil), nil
	default:
		return nil, &DecodeError{Size: len(data), Err: fmt.Errorf("unsupported packet %T", pkt)}
	}
}

func flatten(b *osc.Bundle, out []Datagram) []Datagram {
	for _, m := range b.Messages {
		out = append(out, fromMessage(m))
	}
	for _, inner := range b.Bundles {
		out = flatten(inner, out)
	}
	return out
}

func fromMessage(m *osc.Message) Datagram {
	args := make([]feedback.Argument, 0, len(m.Arguments))
	for _, a := range m.Arguments {
		args = append(args, toArgument(a))
	}
	return Datagram{Topic: m.Address, Arguments: args}
}

func toArgument(v interface{}) feedback.Argument {
	switch x := v.(type) {
	case string:
		return feedback.Text(x)
	case int32:
		return feedback.Number(float64(x))
	case int64:
		return feedback.Number(float64(x))
	case float32:
		return feedback.Number(float64(x))
	case float64:
		return feedback.Number(x)
	case bool:
		if x {
			return feedback.Number(1)
		}
		return feedback.Number(0)
	case nil:
		return feedback.Text("")
	case []byte:
		return feedback.Text(string(x))
	default:
		return feedback.Text(fmt.Sprint(x))
	}
}
