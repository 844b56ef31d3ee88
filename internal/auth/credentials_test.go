package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"budi", "budi"},
		{"Budi", "budi"},
		{"  budi  ", "budi"},
		{"budi santoso", "budi_santoso"},
		{"budi.santoso@mail", "budi_santoso_mail"},
		{"Budi123", "budi123"},
		{"!!!", "___"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeUsername(tt.in); got != tt.want {
			t.Errorf("SanitizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	// No file yet means no saved session.
	creds, err := store.Get()
	if err != nil {
		t.Fatalf("Get on missing file: %v", err)
	}
	if creds != nil {
		t.Fatalf("expected nil credentials, got %+v", creds)
	}

	if err := store.Set(Credentials{User: "budi", Pass: "rahasia"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	creds, err = store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if creds == nil || creds.User != "budi" || creds.Pass != "rahasia" {
		t.Errorf("creds = %+v", creds)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credentials file mode = %o, want 0600", perm)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	creds, err = store.Get()
	if err != nil || creds != nil {
		t.Errorf("after Clear: creds = %+v, err = %v", creds, err)
	}

	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store, _ := NewFileStore(path)
	if _, err := store.Get(); err == nil {
		t.Error("expected error for corrupt credentials file")
	}
}
