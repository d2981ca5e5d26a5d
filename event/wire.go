package event

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// WireVersion is the schema version written into every encoded mouse record
const WireVersion = 1

var (
	// ErrWireMalformed wraps cbor decode failures, including unknown keys
	ErrWireMalformed = errors.New("malformed mouse record")
	// ErrWireVersion is returned when the record carries an unsupported version
	ErrWireVersion = errors.New("unsupported mouse record version")
	// ErrWireField is returned when a required field is absent
	ErrWireField = errors.New("missing mouse record field")
)

// wireMouseV1 is the on-wire shape; pointers distinguish absent keys from zero values
type wireMouseV1 struct {
	Version   *int   `cbor:"0,keyasint"`
	ScreenX   *int32 `cbor:"1,keyasint"`
	ScreenY   *int32 `cbor:"2,keyasint"`
	ClientX   *int32 `cbor:"3,keyasint"`
	ClientY   *int32 `cbor:"4,keyasint"`
	MovementX *int32 `cbor:"5,keyasint"`
	MovementY *int32 `cbor:"6,keyasint"`
	OffsetX   *int32 `cbor:"7,keyasint"`
	OffsetY   *int32 `cbor:"8,keyasint"`
	AltKey    *bool  `cbor:"9,keyasint"`
	CtrlKey   *bool  `cbor:"10,keyasint"`
	Bubbles   *bool  `cbor:"11,keyasint"`
	Button    *int32 `cbor:"12,keyasint"`
	Buttons   *int32 `cbor:"13,keyasint"`
}

var (
	wireEnc cbor.EncMode
	wireDec cbor.DecMode
)

func init() {
	var err error
	wireEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("event: cbor encode mode: %v", err))
	}
	wireDec, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("event: cbor decode mode: %v", err))
	}
}

// EncodeMouse serializes args as a version 1 wire record
func EncodeMouse(a MouseArgs) ([]byte, error) {
	v := WireVersion
	rec := wireMouseV1{
		Version:   &v,
		ScreenX:   &a.ScreenX,
		ScreenY:   &a.ScreenY,
		ClientX:   &a.ClientX,
		ClientY:   &a.ClientY,
		MovementX: &a.MovementX,
		MovementY: &a.MovementY,
		OffsetX:   &a.OffsetX,
		OffsetY:   &a.OffsetY,
		AltKey:    &a.AltKey,
		CtrlKey:   &a.CtrlKey,
		Bubbles:   &a.Bubbles,
		Button:    &a.Button,
		Buttons:   &a.Buttons,
	}
	data, err := wireEnc.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode mouse record: %w", err)
	}
	return data, nil
}

// DecodeMouse parses and validates a wire record
// Every field is required; unknown keys and versions other than WireVersion are rejected
func DecodeMouse(data []byte) (MouseArgs, error) {
	var rec wireMouseV1
	if err := wireDec.Unmarshal(data, &rec); err != nil {
		return MouseArgs{}, fmt.Errorf("%w: %v", ErrWireMalformed, err)
	}

	if rec.Version == nil {
		return MouseArgs{}, fmt.Errorf("%w: version", ErrWireField)
	}
	if *rec.Version != WireVersion {
		return MouseArgs{}, fmt.Errorf("%w: %d", ErrWireVersion, *rec.Version)
	}

	var a MouseArgs
	ints := []struct {
		name string
		src  *int32
		dst  *int32
	}{
		{"ScreenX", rec.ScreenX, &a.ScreenX},
		{"ScreenY", rec.ScreenY, &a.ScreenY},
		{"ClientX", rec.ClientX, &a.ClientX},
		{"ClientY", rec.ClientY, &a.ClientY},
		{"MovementX", rec.MovementX, &a.MovementX},
		{"MovementY", rec.MovementY, &a.MovementY},
		{"OffsetX", rec.OffsetX, &a.OffsetX},
		{"OffsetY", rec.OffsetY, &a.OffsetY},
		{"Button", rec.Button, &a.Button},
		{"Buttons", rec.Buttons, &a.Buttons},
	}
	for _, f := range ints {
		if f.src == nil {
			return MouseArgs{}, fmt.Errorf("%w: %s", ErrWireField, f.name)
		}
		*f.dst = *f.src
	}

	bools := []struct {
		name string
		src  *bool
		dst  *bool
	}{
		{"AltKey", rec.AltKey, &a.AltKey},
		{"CtrlKey", rec.CtrlKey, &a.CtrlKey},
		{"Bubbles", rec.Bubbles, &a.Bubbles},
	}
	for _, f := range bools {
		if f.src == nil {
			return MouseArgs{}, fmt.Errorf("%w: %s", ErrWireField, f.name)
		}
		*f.dst = *f.src
	}

	return a, nil
}
