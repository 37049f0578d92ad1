package ipc

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/volbrt/internal/model"
)

// MaxMessageSize bounds one inbound request.
const MaxMessageSize = 256

// Kind tags on the wire.
const (
	tagVolume     uint8 = 1
	tagBrightness uint8 = 2
)

// wireRequest is the on-socket form of model.Request.
type wireRequest struct {
	Kind     uint8  `cbor:"1,keyasint"`
	Level    uint32 `cbor:"2,keyasint"`
	Muted    bool   `cbor:"3,keyasint,omitempty"`
	Extended bool   `cbor:"4,keyasint,omitempty"`
	ID       []byte `cbor:"5,keyasint,omitempty"`
}

// encMode uses Core Deterministic Encoding so equal requests produce
// identical bytes.
var encMode cbor.EncMode

// decMode rejects unknown fields and trailing garbage.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("ipc: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		MaxMapPairs:       16,
	}.DecMode()
	if err != nil {
		panic("ipc: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes a request.
func Encode(req model.Request) ([]byte, error) {
	w := wireRequest{Level: req.Level}
	if req.ID != (ulid.ULID{}) {
		w.ID = req.ID[:]
	}

	switch k := req.Kind.(type) {
	case model.Volume:
		w.Kind = tagVolume
		w.Muted = k.Muted
		w.Extended = k.Extended
	case model.Brightness:
		w.Kind = tagBrightness
	default:
		return nil, fmt.Errorf("encode request: unknown kind %T", req.Kind)
	}

	return encMode.Marshal(w)
}

// Decode parses one request. Any failure is a *ProtocolError.
func Decode(data []byte) (model.Request, error) {
	if len(data) == 0 {
		return model.Request{}, &ProtocolError{Err: errors.New("empty payload")}
	}
	if len(data) > MaxMessageSize {
		return model.Request{}, &ProtocolError{Err: fmt.Errorf("payload of %d bytes exceeds %d", len(data), MaxMessageSize)}
	}

	var w wireRequest
	if err := decMode.Unmarshal(data, &w); err != nil {
		return model.Request{}, &ProtocolError{Err: err}
	}

	req := model.Request{Level: w.Level}

	switch w.Kind {
	case tagVolume:
		req.Kind = model.Volume{Muted: w.Muted, Extended: w.Extended}
	case tagBrightness:
		if w.Muted || w.Extended {
			return model.Request{}, &ProtocolError{Err: errors.New("volume flags on brightness request")}
		}
		req.Kind = model.Brightness{}
	default:
		return model.Request{}, &ProtocolError{Err: fmt.Errorf("unknown kind tag %d", w.Kind)}
	}

	switch len(w.ID) {
	case 0:
	case len(req.ID):
		copy(req.ID[:], w.ID)
	default:
		return model.Request{}, &ProtocolError{Err: fmt.Errorf("request ID has %d bytes", len(w.ID))}
	}

	return req, nil
}
