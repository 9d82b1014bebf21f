package protocol

import "testing"

func TestErrorRoundtrip(t *testing.T) {
	want := &ErrorFrame{Code: ErrCodeBadCommand, Message: "unknown row 42"}
	got, err := DecodeError(EncodeError(want))
	if err != nil {
		t.Fatalf("DecodeError: %v", err)
	}
	if *got != *want {
		t.Errorf("roundtrip = %+v, want %+v", got, want)
	}
}

func TestDecodeErrorTruncated(t *testing.T) {
	data := EncodeError(&ErrorFrame{Code: ErrCodeInternal, Message: "boom"})
	if _, err := DecodeError(data[:2]); err == nil {
		t.Fatal("truncated error frame decoded without error")
	}
}
