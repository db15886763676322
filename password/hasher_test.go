package password

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/nazonexus/identity/errors"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	h := NewHasher(WithTime(1), WithMemory(16*1024))

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected PHC encoding, got %q", hash)
	}

	if err := h.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
	if err := h.Verify(hash, "correct horse battery stapl"); !stderrors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() with wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := NewHasher(WithTime(1), WithMemory(16*1024))
	a, err := h.Hash("samepassword")
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Hash("samepassword")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password must differ (random salt)")
	}
}

func TestHash_LengthBounds(t *testing.T) {
	h := NewHasher(WithTime(1), WithMemory(16*1024))

	if _, err := h.Hash("short"); !errors.HasCode(err, errors.ErrCodePasswordTooShort) {
		t.Errorf("5-char password: got %v, want PASSWORD_TOO_SHORT", err)
	}
	if _, err := h.Hash(strings.Repeat("x", 129)); !errors.HasCode(err, errors.ErrCodePasswordTooLong) {
		t.Errorf("129-char password: got %v, want PASSWORD_TOO_LONG", err)
	}
	// Boundary values are accepted.
	if _, err := h.Hash(strings.Repeat("x", 128)); err != nil {
		t.Errorf("128-char password should hash, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("x", 6)); err != nil {
		t.Errorf("6-char password should hash, got %v", err)
	}
}

func TestHash_BoundsCountCharactersNotBytes(t *testing.T) {
	h := NewHasher(WithTime(1), WithMemory(16*1024))

	// 128 two-byte characters: 256 bytes but exactly at the character limit.
	if _, err := h.Hash(strings.Repeat("ñ", 128)); err != nil {
		t.Errorf("128-char multi-byte password should hash, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("ñ", 129)); !errors.HasCode(err, errors.ErrCodePasswordTooLong) {
		t.Errorf("129-char multi-byte password: got %v, want PASSWORD_TOO_LONG", err)
	}
	// Five two-byte characters are still below the minimum of six.
	if _, err := h.Hash(strings.Repeat("ñ", 5)); !errors.HasCode(err, errors.ErrCodePasswordTooShort) {
		t.Errorf("5-char multi-byte password: got %v, want PASSWORD_TOO_SHORT", err)
	}
}

func TestVerify_CorruptHash(t *testing.T) {
	h := NewHasher()

	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"bcrypt", "$2a$12$abcdefghijklmnopqrstuv"},
		{"wrong segment count", "$argon2id$v=19$m=65536,t=3,p=4$saltonly"},
		{"bad params", "$argon2id$v=19$m=abc$c2FsdA$aGFzaA"},
		{"bad salt b64", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA"},
		{"bad hash b64", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Verify(tt.stored, "whatever")
			if !errors.HasCode(err, errors.ErrCodeCorruptHash) {
				t.Errorf("got %v, want CORRUPT_HASH", err)
			}
		})
	}
}

func TestVerify_UsesStoredParameters(t *testing.T) {
	// Hash with weak parameters, verify with a hasher configured stronger:
	// the stored string's own parameters must win.
	weak := NewHasher(WithTime(1), WithMemory(8*1024))
	hash, err := weak.Hash("somepassword")
	if err != nil {
		t.Fatal(err)
	}

	strong := NewHasher(WithTime(4), WithMemory(64*1024))
	if err := strong.Verify(hash, "somepassword"); err != nil {
		t.Errorf("Verify() must honor stored params, got %v", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	old := NewHasher(WithTime(1), WithMemory(16*1024))
	hash, err := old.Hash("somepassword")
	if err != nil {
		t.Fatal(err)
	}

	current := NewHasher(WithTime(4), WithMemory(16*1024))
	if !current.NeedsRehash(hash) {
		t.Error("hash from weaker parameters should need rehash")
	}

	fresh, err := current.Hash("somepassword")
	if err != nil {
		t.Fatal(err)
	}
	if current.NeedsRehash(fresh) {
		t.Error("hash from current parameters should not need rehash")
	}
}

func TestNeedsRehash_CorruptHash(t *testing.T) {
	h := NewHasher()
	if !h.NeedsRehash("garbage") {
		t.Error("corrupt hashes should report true so they get replaced")
	}
}
