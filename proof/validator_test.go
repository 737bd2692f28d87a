package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Geekthedev/korra/domain"
)

func TestValidateHappyPath(t *testing.T) {
	v := New(nil)
	p := NewProof("proof-1", "a1", 1700000000, []byte("in"), []byte("out"))
	v.Register(p)

	result := v.Validate("proof-1", []byte("in"), []byte("out"))
	assert.Equal(t, domain.ValidationValid, result)
}

func TestValidateNotFound(t *testing.T) {
	v := New(nil)
	assert.Equal(t, domain.ValidationProofNotFound, v.Validate("missing", nil, nil))
}

func TestValidateInputMismatch(t *testing.T) {
	v := New(nil)
	p := NewProof("proof-1", "a1", 1700000000, []byte("in"), []byte("out"))
	v.Register(p)

	assert.Equal(t, domain.ValidationInputMismatch, v.Validate("proof-1", []byte("IN"), []byte("out")))
}

func TestValidateOutputMismatch(t *testing.T) {
	v := New(nil)
	p := NewProof("proof-1", "a1", 1700000000, []byte("in"), []byte("out"))
	v.Register(p)

	assert.Equal(t, domain.ValidationOutputMismatch, v.Validate("proof-1", []byte("in"), []byte("OUT")))
}

func TestRegisterReportsCollision(t *testing.T) {
	v := New(nil)
	p1 := NewProof("proof-1", "a1", 1, []byte("a"), []byte("b"))
	p2 := NewProof("proof-1", "a1", 2, []byte("c"), []byte("d"))

	assert.True(t, v.Register(p1))
	assert.False(t, v.Register(p2))

	got, ok := v.Get("proof-1")
	assert.True(t, ok)
	assert.Equal(t, p2.ProofHash, got.ProofHash, "latest registration wins")
}

func TestComputeProofHashDeterministic(t *testing.T) {
	h1 := ComputeProofHash("a1", 1700000000, "IN", "OUT")
	h2 := ComputeProofHash("a1", 1700000000, "IN", "OUT")
	assert.Equal(t, h1, h2)

	h3 := ComputeProofHash("a1", 1700000001, "IN", "OUT")
	assert.NotEqual(t, h1, h3)
}
