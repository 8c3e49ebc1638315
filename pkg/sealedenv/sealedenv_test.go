package sealedenv

import (
	"errors"
	"testing"

	"github.com/sealedlabs/sealed/internal/envelope"
	"github.com/sealedlabs/sealed/internal/keys"
)

// fixture builds an Env over a plain map, sealing the given secrets
// under a fresh key. Returns the env and the base64 key.
func fixture(t *testing.T, plain map[string]string, sealed map[string]string, opts ...Option) (*Env, string) {
	t.Helper()

	keyB64, err := keys.Generate()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	key, err := keys.Decode(keyB64)
	if err != nil {
		t.Fatalf("Failed to decode key: %v", err)
	}

	values := make(map[string]string, len(plain)+len(sealed))
	for name, v := range plain {
		values[name] = v
	}
	for name, v := range sealed {
		token, err := envelope.Seal(key, name, []byte(v))
		if err != nil {
			t.Fatalf("Failed to seal %s: %v", name, err)
		}
		values[name] = token
	}

	opts = append([]Option{WithLookup(func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	})}, opts...)

	return New(opts...), keyB64
}

func TestVar_Strict(t *testing.T) {
	env, keyB64 := fixture(t,
		map[string]string{"PLAIN": "plain123"},
		map[string]string{"DATABASE_PASSWORD": "s3cret"},
	)
	env.key = keyB64

	t.Run("absent", func(t *testing.T) {
		if _, err := env.Var("NOPE"); !errors.Is(err, ErrMissingVar) {
			t.Errorf("Var(absent): got %v, want ErrMissingVar", err)
		}
	})

	t.Run("plaintext is an error", func(t *testing.T) {
		if _, err := env.Var("PLAIN"); !errors.Is(err, ErrNotEncrypted) {
			t.Errorf("Var(plaintext): got %v, want ErrNotEncrypted", err)
		}
	})

	t.Run("encrypted decrypts", func(t *testing.T) {
		got, err := env.Var("DATABASE_PASSWORD")
		if err != nil {
			t.Fatalf("Var failed: %v", err)
		}
		if got != "s3cret" {
			t.Errorf("Var = %q, want %q", got, "s3cret")
		}
	})
}

func TestVar_WrongKey(t *testing.T) {
	env, _ := fixture(t, nil, map[string]string{"SECRET": "v"})

	wrong, err := keys.Generate()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	env.key = wrong

	if _, err := env.Var("SECRET"); !errors.Is(err, ErrCrypto) {
		t.Errorf("Var with wrong key: got %v, want ErrCrypto", err)
	}
}

func TestVarOrPlain(t *testing.T) {
	env, keyB64 := fixture(t,
		map[string]string{"PLAIN": "plain123"},
		map[string]string{"SECRET": "hidden"},
	)
	env.key = keyB64

	t.Run("absent", func(t *testing.T) {
		if _, err := env.VarOrPlain("NOPE"); !errors.Is(err, ErrMissingVar) {
			t.Errorf("VarOrPlain(absent): got %v, want ErrMissingVar", err)
		}
	})

	t.Run("plaintext passes through", func(t *testing.T) {
		got, err := env.VarOrPlain("PLAIN")
		if err != nil {
			t.Fatalf("VarOrPlain failed: %v", err)
		}
		if got != "plain123" {
			t.Errorf("VarOrPlain = %q, want %q", got, "plain123")
		}
	})

	t.Run("encrypted decrypts", func(t *testing.T) {
		got, err := env.VarOrPlain("SECRET")
		if err != nil {
			t.Fatalf("VarOrPlain failed: %v", err)
		}
		if got != "hidden" {
			t.Errorf("VarOrPlain = %q, want %q", got, "hidden")
		}
	})
}

func TestVarOrPlain_PlaintextNeedsNoKey(t *testing.T) {
	// No key anywhere; a plaintext value must still come back.
	env, _ := fixture(t, map[string]string{"PLAIN": "plain123"}, nil)

	got, err := env.VarOrPlain("PLAIN")
	if err != nil {
		t.Fatalf("VarOrPlain without key failed: %v", err)
	}
	if got != "plain123" {
		t.Errorf("VarOrPlain = %q, want %q", got, "plain123")
	}
}

func TestVar_LazyKeyResolution(t *testing.T) {
	// The key variable must not even be looked up unless decryption is
	// attempted.
	looked := map[string]bool{}
	env := New(WithLookup(func(name string) (string, bool) {
		looked[name] = true
		if name == "PLAIN" {
			return "plain123", true
		}
		return "", false
	}))

	if _, err := env.VarOrPlain("PLAIN"); err != nil {
		t.Fatalf("VarOrPlain failed: %v", err)
	}
	if looked[DefaultKeyVar] {
		t.Error("Key variable was looked up for a plaintext read")
	}
}

func TestVar_MissingKey(t *testing.T) {
	env, _ := fixture(t, nil, map[string]string{"SECRET": "v"})
	// fixture sealed with a key but configured none on the Env.

	if _, err := env.Var("SECRET"); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Var without key: got %v, want ErrMissingKey", err)
	}
}

func TestVar_KeyFromLookupFallback(t *testing.T) {
	keyB64, err := keys.Generate()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	key, err := keys.Decode(keyB64)
	if err != nil {
		t.Fatalf("Failed to decode key: %v", err)
	}
	token, err := envelope.Seal(key, "SECRET", []byte("v"))
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}

	values := map[string]string{"SECRET": token, DefaultKeyVar: keyB64}
	env := New(WithLookup(func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}))

	got, err := env.Var("SECRET")
	if err != nil {
		t.Fatalf("Var failed: %v", err)
	}
	if got != "v" {
		t.Errorf("Var = %q, want %q", got, "v")
	}
}

func TestVarOptional(t *testing.T) {
	env, keyB64 := fixture(t,
		map[string]string{"PLAIN": "plain123"},
		map[string]string{"SECRET": "hidden"},
	)
	env.key = keyB64

	t.Run("absent is not an error", func(t *testing.T) {
		got, ok, err := env.VarOptional("NOPE")
		if err != nil {
			t.Fatalf("VarOptional(absent) errored: %v", err)
		}
		if ok || got != "" {
			t.Errorf("VarOptional(absent) = (%q, %v), want (\"\", false)", got, ok)
		}
	})

	t.Run("plaintext", func(t *testing.T) {
		got, ok, err := env.VarOptional("PLAIN")
		if err != nil || !ok || got != "plain123" {
			t.Errorf("VarOptional = (%q, %v, %v), want (%q, true, nil)", got, ok, err, "plain123")
		}
	})

	t.Run("encrypted", func(t *testing.T) {
		got, ok, err := env.VarOptional("SECRET")
		if err != nil || !ok || got != "hidden" {
			t.Errorf("VarOptional = (%q, %v, %v), want (%q, true, nil)", got, ok, err, "hidden")
		}
	})

	t.Run("bad envelope still errors", func(t *testing.T) {
		broken, _ := fixture(t, map[string]string{"BAD": "ENCv1:!!:!!"}, nil)
		broken.key = keyB64
		if _, _, err := broken.VarOptional("BAD"); !errors.Is(err, ErrCrypto) {
			t.Errorf("VarOptional(bad envelope): got %v, want ErrCrypto", err)
		}
	})
}

func TestWithKeyVar(t *testing.T) {
	keyB64, err := keys.Generate()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	key, err := keys.Decode(keyB64)
	if err != nil {
		t.Fatalf("Failed to decode key: %v", err)
	}
	token, err := envelope.Seal(key, "SECRET", []byte("v"))
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}

	values := map[string]string{"SECRET": token, "MY_KEY_VAR": keyB64}
	env := New(
		WithLookup(func(name string) (string, bool) {
			v, ok := values[name]
			return v, ok
		}),
		WithKeyVar("MY_KEY_VAR"),
	)

	got, err := env.Var("SECRET")
	if err != nil {
		t.Fatalf("Var failed: %v", err)
	}
	if got != "v" {
		t.Errorf("Var = %q, want %q", got, "v")
	}
}
