// Package proof implements content-addressed attestation of agent
// executions: binding an agent, timestamp, input, and output by SHA-256.
package proof

import (
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"sync"

	"github.com/Geekthedev/korra/domain"
)

// Sink receives proof lifecycle notifications.
type Sink interface {
	ProofRegistered(p domain.Proof)
	ProofValidated(proofID string, result domain.ValidationResult)
}

type nopSink struct{}

func (nopSink) ProofRegistered(domain.Proof) {}
func (nopSink) ProofValidated(string, domain.ValidationResult) {}

// Validator is the concurrency-safe proof store.
type Validator struct {
	mu     sync.RWMutex
	proofs map[string]domain.Proof
	sink   Sink
}

// New constructs an empty Validator. Pass nil for sink to skip notifications.
func New(sink Sink) *Validator {
	if sink == nil {
		sink = nopSink{}
	}
	return &Validator{proofs: make(map[string]domain.Proof), sink: sink}
}

// HashBytes returns the base64-standard encoding of SHA-256(data).
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// ComputeProofHash recomputes the combined proof hash for the given fields,
// concatenating agentId, the decimal timestamp, inputHash, and outputHash as
// raw bytes before hashing.
func ComputeProofHash(agentID string, timestamp int64, inputHash, outputHash string) string {
	buf := agentID + strconv.FormatInt(timestamp, 10) + inputHash + outputHash
	sum := sha256.Sum256([]byte(buf))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// NewProof builds a Proof record from raw input/output bytes, computing all
// three hashes.
func NewProof(id, agentID string, timestamp int64, input, output []byte) domain.Proof {
	inputHash := HashBytes(input)
	outputHash := HashBytes(output)
	return domain.Proof{
		ID:         id,
		AgentID:    agentID,
		Timestamp:  timestamp,
		InputHash:  inputHash,
		OutputHash: outputHash,
		ProofHash:  ComputeProofHash(agentID, timestamp, inputHash, outputHash),
	}
}

// Register stores p, overwriting any existing proof with the same id. It
// returns ok=false when a prior proof with the same id existed, so callers
// can observe and record the collision even though the newer registration
// wins.
func (v *Validator) Register(p domain.Proof) (ok bool) {
	v.mu.Lock()
	_, existed := v.proofs[p.ID]
	v.proofs[p.ID] = p
	v.mu.Unlock()
	v.sink.ProofRegistered(p)
	return !existed
}

// Get returns the stored proof, if present.
func (v *Validator) Get(proofID string) (domain.Proof, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, ok := v.proofs[proofID]
	return p, ok
}

// All returns a point-in-time snapshot of every stored proof.
func (v *Validator) All() []domain.Proof {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]domain.Proof, 0, len(v.proofs))
	for _, p := range v.proofs {
		out = append(out, p)
	}
	return out
}

// Validate checks whether input and output are consistent with the proof
// registered under proofID, short-circuiting in the order: not found, input
// mismatch, output mismatch, combined hash mismatch.
func (v *Validator) Validate(proofID string, input, output []byte) domain.ValidationResult {
	p, ok := v.Get(proofID)
	var result domain.ValidationResult
	switch {
	case !ok:
		result = domain.ValidationProofNotFound
	case HashBytes(input) != p.InputHash:
		result = domain.ValidationInputMismatch
	case HashBytes(output) != p.OutputHash:
		result = domain.ValidationOutputMismatch
	case ComputeProofHash(p.AgentID, p.Timestamp, p.InputHash, p.OutputHash) != p.ProofHash:
		result = domain.ValidationProofHashMismatch
	default:
		result = domain.ValidationValid
	}
	v.sink.ProofValidated(proofID, result)
	return result
}
