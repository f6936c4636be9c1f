package prefs_test

import (
	"path/filepath"
	"testing"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/prefs"
	"github.com/indradhanu/indradhanu/internal/store"
)

func testStore(t *testing.T, path string) *store.Store {
	t.Helper()
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadDefaults(t *testing.T) {
	s := testStore(t, filepath.Join(t.TempDir(), "test.db"))
	p, err := prefs.Load(s)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.DefaultCity() != "" {
		t.Errorf("fresh prefs: expected empty city, got %q", p.DefaultCity())
	}
	if p.Profile() != model.DefaultProfile() {
		t.Errorf("fresh prefs: expected placeholder profile, got %+v", p.Profile())
	}
	if p.Language() != "en" {
		t.Errorf("fresh prefs: expected language en, got %q", p.Language())
	}
	if p.IsProfileConfigured() {
		t.Error("placeholder profile must not count as configured")
	}
}

func TestSetPersistsAcrossReload(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s := testStore(t, dbPath)
	p, err := prefs.Load(s)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}

	profile := model.UserProfile{Name: "Asha", Email: "asha@example.com", Role: "Agronomist", Phone: "+91 98765 43210"}
	if err := p.SetDefaultCity("Pune"); err != nil {
		t.Fatalf("SetDefaultCity: %v", err)
	}
	if err := p.SetProfile(profile); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if err := p.SetLanguage("hi"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if !p.IsProfileConfigured() {
		t.Error("profile should count as configured after set")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Simulated process restart.
	s2 := testStore(t, dbPath)
	p2, err := prefs.Load(s2)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p2.DefaultCity() != "Pune" {
		t.Errorf("city after reload: expected Pune, got %q", p2.DefaultCity())
	}
	if p2.Profile() != profile {
		t.Errorf("profile after reload: expected %+v, got %+v", profile, p2.Profile())
	}
	if p2.Language() != "hi" {
		t.Errorf("language after reload: expected hi, got %q", p2.Language())
	}
}
