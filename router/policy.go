package router

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// AdmissionDecision is the outcome of evaluating a job against the
// admission policy, before the router consults the registry or membership.
type AdmissionDecision string

const (
	AdmissionAllow          AdmissionDecision = "allow"
	AdmissionRequireReview  AdmissionDecision = "require_review"
	AdmissionBlock          AdmissionDecision = "block"
)

// AdmissionPolicy evaluates a job's placement eligibility.
type AdmissionPolicy struct {
	query rego.PreparedEvalQuery
}

// NewAdmissionPolicy compiles policyContent, a rego module defining
// data.job_admission.decision, into a prepared query.
func NewAdmissionPolicy(ctx context.Context, policyContent string) (*AdmissionPolicy, error) {
	r := rego.New(
		rego.Query("data.job_admission.decision"),
		rego.Module("job_admission.rego", policyContent),
	)
	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare admission policy: %w", err)
	}
	return &AdmissionPolicy{query: query}, nil
}

// Evaluate runs the policy against the job's admission input, returning
// allow when the policy is silent or returns an unexpected shape.
func (p *AdmissionPolicy) Evaluate(ctx context.Context, input map[string]interface{}) (AdmissionDecision, string, error) {
	results, err := p.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("evaluate admission policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return AdmissionAllow, "default", nil
	}
	val := results[0].Expressions[0].Value
	if s, ok := val.(string); ok {
		return AdmissionDecision(s), "", nil
	}
	if m, ok := val.(map[string]interface{}); ok {
		decision, _ := m["decision"].(string)
		reason, _ := m["reason"].(string)
		if decision == "" {
			decision = string(AdmissionAllow)
		}
		return AdmissionDecision(decision), reason, nil
	}
	return AdmissionAllow, "unexpected policy return type", nil
}

// DefaultAdmissionPolicy allows every job. Operators may swap in a stricter
// module at Coordinator construction time.
const DefaultAdmissionPolicy = `
package job_admission

default decision = "allow"
`
