package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Geekthedev/korra/domain"
)

func mustVersion(t *testing.T, s string) domain.Version {
	t.Helper()
	v, err := domain.ParseVersion(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestRegisterAndGet(t *testing.T) {
	r := New(nil)
	r.Register(domain.Agent{ID: "a1", Name: "Analyzer", Version: mustVersion(t, "1.0.0")})

	got, ok := r.Get("a1")
	assert.True(t, ok)
	assert.Equal(t, "Analyzer", got.Name)
}

func TestUnregisterClearsVersion(t *testing.T) {
	r := New(nil)
	r.Register(domain.Agent{ID: "a1", Version: mustVersion(t, "1.0.0")})

	removed := r.Unregister("a1")
	assert.True(t, removed)
	assert.False(t, r.IsRegistered("a1"))
	_, ok := r.LatestVersion("a1")
	assert.False(t, ok)
}

func TestUnregisterUnknownReturnsFalse(t *testing.T) {
	r := New(nil)
	assert.False(t, r.Unregister("missing"))
}

func TestLatestVersionTracksMaximum(t *testing.T) {
	r := New(nil)
	r.Register(domain.Agent{ID: "x", Version: mustVersion(t, "1.2.0")})
	r.Register(domain.Agent{ID: "x", Version: mustVersion(t, "1.3.0")})
	r.Register(domain.Agent{ID: "x", Version: mustVersion(t, "1.2.5")})

	latest, ok := r.LatestVersion("x")
	assert.True(t, ok)
	assert.Equal(t, "1.3.0", latest.String())
}

func TestUpdateRequiresExistingRecord(t *testing.T) {
	r := New(nil)
	assert.False(t, r.Update(domain.Agent{ID: "missing"}))

	r.Register(domain.Agent{ID: "a1", Name: "old", Version: mustVersion(t, "1.0.0")})
	assert.True(t, r.Update(domain.Agent{ID: "a1", Name: "new", Version: mustVersion(t, "1.0.0")}))

	got, _ := r.Get("a1")
	assert.Equal(t, "new", got.Name)
}

func TestAllReturnsDefensiveCopies(t *testing.T) {
	r := New(nil)
	r.Register(domain.Agent{ID: "a1", Metadata: map[string]string{"k": "v"}, Version: mustVersion(t, "1.0.0")})

	all := r.All()
	all[0].Metadata["k"] = "mutated"

	got, _ := r.Get("a1")
	assert.Equal(t, "v", got.Metadata["k"])
}
