package event

import (
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func sampleArgs() MouseArgs {
	return MouseArgs{
		ScreenX: 1200, ScreenY: 640,
		ClientX: 300, ClientY: 200,
		MovementX: -3, MovementY: 4,
		OffsetX: 290, OffsetY: 190,
		AltKey: true, Bubbles: true,
		Button: ButtonSecondary, Buttons: ButtonSecondary,
	}
}

// fullRecord returns a valid record as a raw key map so tests can corrupt it
func fullRecord() map[int]any {
	return map[int]any{
		0: WireVersion, 1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6, 7: 7, 8: 8,
		9: false, 10: true, 11: false, 12: 0, 13: 1,
	}
}

func TestWire_EncodeDecode(t *testing.T) {
	in := sampleArgs()

	data, err := EncodeMouse(in)
	if err != nil {
		t.Fatalf("EncodeMouse failed: %v", err)
	}
	out, err := DecodeMouse(data)
	if err != nil {
		t.Fatalf("DecodeMouse failed: %v", err)
	}
	if out != in {
		t.Errorf("Expected %+v, got %+v", in, out)
	}
}

func TestWire_DecodeRawRecord(t *testing.T) {
	data, err := cbor.Marshal(fullRecord())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	a, err := DecodeMouse(data)
	if err != nil {
		t.Fatalf("DecodeMouse failed: %v", err)
	}
	if a.OffsetY != 8 || !a.CtrlKey || a.Buttons != 1 {
		t.Errorf("Unexpected decode result: %+v", a)
	}
}

func TestWire_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m map[int]any)
		wantErr error
	}{
		{"missing version", func(m map[int]any) { delete(m, 0) }, ErrWireField},
		{"future version", func(m map[int]any) { m[0] = 2 }, ErrWireVersion},
		{"missing int field", func(m map[int]any) { delete(m, 13) }, ErrWireField},
		{"missing bool field", func(m map[int]any) { delete(m, 11) }, ErrWireField},
		{"unknown key", func(m map[int]any) { m[99] = 1 }, ErrWireMalformed},
		{"wrong type", func(m map[int]any) { m[1] = "left" }, ErrWireMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fullRecord()
			tt.mutate(m)
			data, err := cbor.Marshal(m)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}

			_, err = DecodeMouse(data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWire_RejectsGarbage(t *testing.T) {
	_, err := DecodeMouse([]byte{0xff, 0x00, 0x13})
	if !errors.Is(err, ErrWireMalformed) {
		t.Errorf("Expected ErrWireMalformed, got %v", err)
	}
}
