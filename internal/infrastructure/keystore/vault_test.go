package keystore_test

import (
	"testing"

	"github.com/promptalchemy/alchemy-go/internal/infrastructure/keystore"
)

// fakeResolver is an in-memory ports.KeyResolver with switchable failure
// modes, standing in for the OS keyring in tests.
type fakeResolver struct {
	secrets  map[string]string
	readOnly bool
	broken   bool
	sets     int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{secrets: map[string]string{}}
}

func (f *fakeResolver) Get(provider string) (string, bool) {
	if f.broken {
		return "", false
	}
	secret, ok := f.secrets[provider]
	return secret, ok && secret != ""
}

func (f *fakeResolver) Set(provider, secret string) bool {
	if f.broken || f.readOnly {
		return false
	}
	f.sets++
	f.secrets[provider] = secret
	return true
}

func (f *fakeResolver) Delete(provider string) bool {
	if f.broken {
		return false
	}
	_, ok := f.secrets[provider]
	delete(f.secrets, provider)
	return ok
}

func TestVault_SetThenGet(t *testing.T) {
	ring := newFakeResolver()
	vault := keystore.NewChain(ring, newFakeResolver(), nil, nil)

	if !vault.Set("openai", "sk-test") {
		t.Fatal("set did not land in the vault")
	}
	secret, ok := vault.Get("openai")
	if !ok || secret != "sk-test" {
		t.Errorf("get = (%q, %v), want (sk-test, true)", secret, ok)
	}
}

func TestVault_ProviderIDsAreCaseInsensitive(t *testing.T) {
	vault := keystore.NewChain(newFakeResolver(), nil, nil, nil)

	vault.Set("OpenAI", "sk-case")
	secret, ok := vault.Get("openai")
	if !ok || secret != "sk-case" {
		t.Errorf("get(openai) after set(OpenAI) = (%q, %v), want the same entry", secret, ok)
	}
}

func TestVault_GetFallsBackToFile(t *testing.T) {
	ring := newFakeResolver()
	ring.broken = true
	file := newFakeResolver()
	file.secrets["openai"] = "sk-file"

	vault := keystore.NewChain(ring, file, nil, nil)

	secret, ok := vault.Get("openai")
	if !ok || secret != "sk-file" {
		t.Errorf("get = (%q, %v), want file fallback value", secret, ok)
	}
}

func TestVault_SetFallsBackToFileWhenVaultFails(t *testing.T) {
	ring := newFakeResolver()
	ring.broken = true
	file := newFakeResolver()

	vault := keystore.NewChain(ring, file, nil, nil)

	if vault.Set("openai", "sk-fallback") {
		t.Error("set reported vault storage despite a broken keyring")
	}
	if file.secrets["openai"] != "sk-fallback" {
		t.Error("secret did not land in the file config")
	}
	if len(ring.secrets) != 0 {
		t.Error("secret written to the broken vault as well")
	}
}

func TestVault_SetNeverWritesBothLocations(t *testing.T) {
	ring := newFakeResolver()
	file := newFakeResolver()
	vault := keystore.NewChain(ring, file, nil, nil)

	if !vault.Set("openai", "sk-vault") {
		t.Fatal("vault write failed")
	}
	if len(file.secrets) != 0 {
		t.Error("file config written even though the vault succeeded")
	}
}

func TestVault_SiblingMigration(t *testing.T) {
	ring := newFakeResolver()
	sibling := newFakeResolver()
	sibling.secrets["openai"] = "sk-imageai"

	vault := keystore.NewChain(ring, newFakeResolver(), sibling, nil)

	secret, ok := vault.Get("openai")
	if !ok || secret != "sk-imageai" {
		t.Fatalf("get = (%q, %v), want sibling value", secret, ok)
	}
	if ring.secrets["openai"] != "sk-imageai" {
		t.Error("sibling hit was not migrated into our own namespace")
	}

	// Second lookup must resolve at step 1 without touching the sibling.
	sibling.broken = true
	if secret, ok := vault.Get("openai"); !ok || secret != "sk-imageai" {
		t.Errorf("second get = (%q, %v), want migrated value", secret, ok)
	}
}

func TestVault_AbsenceIsNotAnError(t *testing.T) {
	vault := keystore.NewChain(newFakeResolver(), newFakeResolver(), newFakeResolver(), nil)
	if secret, ok := vault.Get("nowhere"); ok || secret != "" {
		t.Errorf("get = (%q, %v), want clean absence", secret, ok)
	}
}

func TestVault_Delete(t *testing.T) {
	ring := newFakeResolver()
	vault := keystore.NewChain(ring, nil, nil, nil)

	vault.Set("openai", "sk-gone")
	if !vault.Delete("OpenAI") {
		t.Error("delete reported failure for an existing key")
	}
	if _, ok := vault.Get("openai"); ok {
		t.Error("credential still resolvable after delete")
	}
}
