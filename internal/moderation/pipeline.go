package moderation

import (
	"context"

	"github.com/alexanderramin/guardian/internal/guard"
	"github.com/alexanderramin/guardian/internal/policy"
)

// Direction distinguishes which side of the model a text came from.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Recorder receives moderation denials for the parent-facing event log.
// Recording is best-effort: it must never influence the decision.
type Recorder interface {
	RecordDenial(ctx context.Context, direction string, result policy.ModResult)
}

// Pipeline orchestrates normalization, PII and language checks, and guard
// classification into a single ModResult for inbound and outbound text.
type Pipeline struct {
	client   guard.Client
	recorder Recorder // may be nil
}

// NewPipeline creates a Pipeline backed by the given guard client. The
// recorder may be nil when no event log is wired.
func NewPipeline(client guard.Client, recorder Recorder) *Pipeline {
	return &Pipeline{client: client, recorder: recorder}
}

// ModerateInput moderates user text before it reaches the model.
func (p *Pipeline) ModerateInput(ctx context.Context, text string, band policy.AgeBand) policy.ModResult {
	return p.moderate(ctx, DirectionInput, text, band)
}

// ModerateOutput moderates generated text before it reaches the user.
func (p *Pipeline) ModerateOutput(ctx context.Context, text string, band policy.AgeBand) policy.ModResult {
	return p.moderate(ctx, DirectionOutput, text, band)
}

// moderate is the shared algorithm. Every exit path that is not an explicit
// classifier allow is a denial: the guard model is an untrusted, possibly
// unavailable collaborator and the pipeline degrades to maximally
// restrictive behavior rather than defaulting open.
func (p *Pipeline) moderate(ctx context.Context, dir Direction, text string, band policy.AgeBand) policy.ModResult {
	if DetectNonEnglish(text) {
		return p.record(ctx, dir, policy.Denied("non-English text detected", policy.CategoryOtherSensitive))
	}

	normalized := Normalize(text)
	pii := DetectPII(text) || DetectPII(normalized)

	prompt := classificationPrompt(DeObfuscate(normalized), band)
	verdict, err := p.client.Classify(ctx, prompt)
	if err != nil {
		// Network error, non-200, timeout, protocol violation: all identical.
		return p.record(ctx, dir, policy.Denied("moderation check failed", policy.CategoryOtherSensitive))
	}

	// Merge into a fresh result; verdicts are never mutated in place.
	merged := policy.ModResult{
		Allowed:    verdict.Allowed,
		Categories: policy.NewCategorySet(verdict.Categories.Slice()...),
		Rationale:  verdict.Rationale,
	}
	if pii {
		merged.Allowed = false
		merged.Categories.Add(policy.CategoryPrivacyPersonal)
	}

	return p.record(ctx, dir, merged)
}

// SafeRewrite issues exactly one rewrite request for a disallowed output and
// re-moderates the result. If the rewrite fails moderation or the generation
// endpoint misbehaves, the fixed block message is returned instead; callers
// must not retry.
//
// The original text is accepted for interface symmetry but never forwarded
// to the generator; the prompt carries only a fixed summary line.
func (p *Pipeline) SafeRewrite(ctx context.Context, _ string, band policy.AgeBand) string {
	text, err := p.client.Rewrite(ctx, rewritePrompt(band))
	if err != nil || text == "" {
		return policy.KidFriendlyBlockMsg
	}

	check := p.ModerateOutput(ctx, text, band)
	if !check.Allowed {
		return policy.KidFriendlyBlockMsg
	}
	return text
}

func (p *Pipeline) record(ctx context.Context, dir Direction, result policy.ModResult) policy.ModResult {
	if p.recorder != nil && !result.Allowed {
		p.recorder.RecordDenial(ctx, string(dir), result)
	}
	return result
}
