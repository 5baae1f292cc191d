package tokens

import "testing"

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatalf("GenerateOpaqueToken: %v", err)
	}
	b, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatalf("GenerateOpaqueToken: %v", err)
	}
	if a == "" || a == b {
		t.Fatalf("tokens no aleatorios: %q, %q", a, b)
	}
}

func TestSHA256HexDeterministico(t *testing.T) {
	h1 := SHA256Hex("secreto")
	h2 := SHA256Hex("secreto")
	if h1 != h2 {
		t.Fatalf("hash inestable: %q vs %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("largo %d, want 64 hex chars", len(h1))
	}
	if h1 == SHA256Hex("otro") {
		t.Fatal("colisión trivial")
	}
}
