// Package prefs holds the user's preference slots: default city, profile,
// and UI language. State is loaded once at startup, injected into whatever
// needs it, and persisted synchronously on every set.
package prefs

import (
	"fmt"
	"sync"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/store"
)

// Preferences is the process-wide preference state. Safe for concurrent use;
// every setter persists the full new value before returning.
type Preferences struct {
	mu       sync.RWMutex
	store    *store.Store
	city     string
	profile  model.UserProfile
	language string
}

// Load reads all slots from the store, falling back to built-in defaults for
// absent keys: empty city, placeholder profile, language "en".
func Load(s *store.Store) (*Preferences, error) {
	p := &Preferences{
		store:    s,
		profile:  model.DefaultProfile(),
		language: "en",
	}

	city, found, err := s.GetDefaultCity()
	if err != nil {
		return nil, fmt.Errorf("loading default city: %w", err)
	}
	if found {
		p.city = city
	}

	profile, found, err := s.GetUserProfile()
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if found {
		p.profile = profile
	}

	lang, found, err := s.GetLanguage()
	if err != nil {
		return nil, fmt.Errorf("loading language: %w", err)
	}
	if found {
		p.language = lang
	}

	return p, nil
}

// DefaultCity returns the saved default city, empty if never set.
func (p *Preferences) DefaultCity() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.city
}

// SetDefaultCity saves the default city.
func (p *Preferences) SetDefaultCity(city string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.PutDefaultCity(city); err != nil {
		return err
	}
	p.city = city
	return nil
}

// Profile returns the user profile.
func (p *Preferences) Profile() model.UserProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.profile
}

// SetProfile saves the user profile.
func (p *Preferences) SetProfile(profile model.UserProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.PutUserProfile(profile); err != nil {
		return err
	}
	p.profile = profile
	return nil
}

// IsProfileConfigured reports whether the profile differs from the
// placeholder defaults.
func (p *Preferences) IsProfileConfigured() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.profile != model.DefaultProfile()
}

// Language returns the UI language code.
func (p *Preferences) Language() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.language
}

// SetLanguage saves the UI language code.
func (p *Preferences) SetLanguage(code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.PutLanguage(code); err != nil {
		return err
	}
	p.language = code
	return nil
}
