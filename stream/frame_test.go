package stream

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// decodeFrame reads back a frame written by MarshalBinary.
func decodeFrame(t *testing.T, data []byte) *Frame {
	t.Helper()
	if len(data) < 4 {
		t.Fatalf("frame header is %d bytes, want 4", len(data))
	}
	w := int(binary.LittleEndian.Uint16(data[0:]))
	h := int(binary.LittleEndian.Uint16(data[2:]))
	if len(data)-4 != w*h*4 {
		t.Fatalf("frame of %dx%d has %d bytes of pixels", w, h, len(data)-4)
	}
	f := NewFrame(w, h)
	copy(f.Pix, data[4:])
	return f
}

func TestMarshalBinary(t *testing.T) {
	t.Parallel()

	f := NewFrame(3, 2)
	f.Pix[0] = 0xff
	f.Pix[len(f.Pix)-1] = 0x80

	data, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(data) != 4+3*2*4 {
		t.Fatalf("len = %d, want %d", len(data), 4+3*2*4)
	}
	if w, h := binary.LittleEndian.Uint16(data[0:]), binary.LittleEndian.Uint16(data[2:]); w != 3 || h != 2 {
		t.Errorf("header = %dx%d, want 3x2", w, h)
	}
	if data[4] != 0xff || data[len(data)-1] != 0x80 {
		t.Errorf("pixels not copied in order: % x", data)
	}

	back := decodeFrame(t, data)
	if diff := cmp.Diff(f.Pix, back.Pix); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpolateFrame(t *testing.T) {
	t.Parallel()

	a := NewFrame(1, 1)
	b := NewFrame(1, 1)
	copy(a.Pix, []byte{0, 0, 0, 0})
	copy(b.Pix, []byte{200, 100, 0, 255})

	tests := []struct {
		point float64
		want  []byte
	}{
		{point: 0, want: []byte{0, 0, 0, 0}},
		{point: 0.5, want: []byte{100, 50, 0, 128}},
		{point: 1, want: []byte{200, 100, 0, 255}},
		{point: 2, want: []byte{200, 100, 0, 255}},
	}
	for _, tt := range tests {
		got := a.InterpolateFrame(b, tt.point)
		if diff := cmp.Diff(tt.want, got.Pix); diff != "" {
			t.Errorf("InterpolateFrame(%v) mismatch (-want +got):\n%s", tt.point, diff)
		}
	}
}

func TestInterpolateFrameBlendsStraightColour(t *testing.T) {
	t.Parallel()

	red := NewFrame(1, 1)
	blue := NewFrame(1, 1)
	copy(red.Pix, []byte{255, 0, 0, 255})
	copy(blue.Pix, []byte{0, 0, 129, 129})

	// Half way: purple at the mean opacity, premultiplied.
	got := red.InterpolateFrame(blue, 0.5)
	if diff := cmp.Diff([]byte{96, 0, 96, 192}, got.Pix); diff != "" {
		t.Errorf("InterpolateFrame(0.5) mismatch (-want +got):\n%s", diff)
	}

	// Fading out keeps the colour of what fades.
	got = red.InterpolateFrame(NewFrame(1, 1), 0.5)
	if diff := cmp.Diff([]byte{128, 0, 0, 128}, got.Pix); diff != "" {
		t.Errorf("fade out mismatch (-want +got):\n%s", diff)
	}
}
