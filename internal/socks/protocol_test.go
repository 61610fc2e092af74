package socks

import (
	"bytes"
	"net"
	"testing"
)

func TestReadGreeting_Success(t *testing.T) {
	in := bytes.NewReader([]byte{0x05, 0x01, 0x00})
	var out bytes.Buffer
	if err := readGreeting(in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out.Bytes(), []byte{0x05, 0x00}) {
		t.Errorf("unexpected reply: %v", out.Bytes())
	}
}

func TestReadGreeting_BadVersion(t *testing.T) {
	in := bytes.NewReader([]byte{0x04, 0x01, 0x00})
	var out bytes.Buffer
	err := readGreeting(in, &out)
	if err != ErrBadVersion {
		t.Fatalf("expected ErrBadVersion, got %v", err)
	}
}

func TestReadGreeting_NoAcceptableMethod(t *testing.T) {
	in := bytes.NewReader([]byte{0x05, 0x01, 0x02}) // only GSSAPI offered
	var out bytes.Buffer
	err := readGreeting(in, &out)
	if err != ErrNoAcceptableMethod {
		t.Fatalf("expected ErrNoAcceptableMethod, got %v", err)
	}
}

func TestReadRequest_IPv4(t *testing.T) {
	in := bytes.NewReader([]byte{0x05, 0x01, 0x00, 0x01, 93, 184, 216, 34, 0x00, 0x50})
	req, err := readRequest(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.destHost != "93.184.216.34" || req.destPort != 80 {
		t.Errorf("got %+v", req)
	}
}

func TestReadRequest_Domain(t *testing.T) {
	domain := "example.com"
	payload := []byte{0x05, 0x01, 0x00, 0x03, byte(len(domain))}
	payload = append(payload, []byte(domain)...)
	payload = append(payload, 0x00, 0x50)
	in := bytes.NewReader(payload)

	req, err := readRequest(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.destHost != domain || req.destPort != 80 {
		t.Errorf("got %+v", req)
	}
}

func TestReadRequest_IPv6Unsupported(t *testing.T) {
	in := bytes.NewReader([]byte{0x05, 0x01, 0x00, 0x04})
	_, err := readRequest(in)
	if err != ErrUnsupportedAddressType {
		t.Fatalf("expected ErrUnsupportedAddressType, got %v", err)
	}
}

func TestReadRequest_UnsupportedCommand(t *testing.T) {
	in := bytes.NewReader([]byte{0x05, 0x02, 0x00, 0x01}) // BIND
	_, err := readRequest(in)
	if err != ErrUnsupportedCommand {
		t.Fatalf("expected ErrUnsupportedCommand, got %v", err)
	}
}

func TestWriteHostUnreachable_ExactBytes(t *testing.T) {
	var out bytes.Buffer
	if err := writeHostUnreachable(&out); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x05, 0x04, 0x00, 0x01, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("got %v, want %v", out.Bytes(), want)
	}
}

func TestWriteSuccess_EncodesLocalAddr(t *testing.T) {
	var out bytes.Buffer
	addr := &net.TCPAddr{IP: net.ParseIP("10.0.0.5").To4(), Port: 4135}
	if err := writeSuccess(&out, addr); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x05, 0x00, 0x00, 0x01, 10, 0, 0, 5, 0x10, 0x27}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("got %v, want %v", out.Bytes(), want)
	}
}
