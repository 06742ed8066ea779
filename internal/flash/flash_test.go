package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("test-secret"), "flash", false)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := newTestCodec()

	val, err := codec.Encode(Message{Kind: KindSuccess, Text: "Message sent"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	m, err := codec.Decode(val)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if m.Kind != KindSuccess {
		t.Errorf("Wrong kind: got %s", m.Kind)
	}
	if m.Text != "Message sent" {
		t.Errorf("Wrong text: got %q", m.Text)
	}
}

func TestDecodeRejectsTamperedValue(t *testing.T) {
	codec := newTestCodec()

	val, _ := codec.Encode(Message{Kind: KindError, Text: "All fields are required"})

	// Flip a byte in the payload, keep the signature
	tampered := "x" + val[1:]
	if _, err := codec.Decode(tampered); err == nil {
		t.Error("Expected error for tampered payload")
	}

	// Different secret must not verify
	other := NewCodec([]byte("other-secret"), "flash", false)
	if _, err := other.Decode(val); err == nil {
		t.Error("Expected error for wrong secret")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	codec := newTestCodec()

	for _, v := range []string{"", "nodot", "a.b.c", "!!!.???"} {
		if _, err := codec.Decode(v); err == nil {
			t.Errorf("Expected error for %q", v)
		}
	}
}

func TestTakeClearsCookie(t *testing.T) {
	codec := newTestCodec()

	// First response sets the flash
	setRec := httptest.NewRecorder()
	codec.Set(setRec, Message{Kind: KindInfo, Text: "hello"})
	cookies := setRec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 cookie, got %d", len(cookies))
	}

	// Next request carries it; Take must return it and clear it
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()

	m := codec.Take(rec, req)
	if m == nil {
		t.Fatal("Take returned nil for valid flash")
	}
	if m.Text != "hello" {
		t.Errorf("Wrong text: got %q", m.Text)
	}

	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Error("Take did not clear the cookie")
	}
}

func TestTakeClearsInvalidCookie(t *testing.T) {
	codec := newTestCodec()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "flash", Value: "garbage"})
	rec := httptest.NewRecorder()

	if m := codec.Take(rec, req); m != nil {
		t.Errorf("Take returned %+v for garbage cookie", m)
	}

	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Error("Invalid cookie was not cleared")
	}
}

func TestTakeNoCookie(t *testing.T) {
	codec := newTestCodec()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if m := codec.Take(rec, req); m != nil {
		t.Errorf("Take returned %+v with no cookie present", m)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("No cookie should be written when none was present")
	}
}
