package parse

import (
	"testing"

	"plantbot/internal/domain"
)

const fullResponse = `{
	"identification": {
		"commonName": "Monstera",
		"scientificName": "Monstera deliciosa",
		"confidence": "high",
		"notes": "Distinctive fenestrated leaves"
	},
	"healthAssessment": {
		"score": 8,
		"summary": "Healthy with minor browning",
		"issues": [
			{"name": "Leaf browning", "severity": "low", "description": "Edges browning", "affectedArea": "lower leaves"}
		]
	},
	"immediateActions": [
		{"action": "Trim brown edges", "priority": "when_convenient", "detail": "Use clean shears"}
	],
	"carePlan": {
		"watering": {"frequency": "every 7-10 days", "amount": "until drainage", "notes": "Let top inch dry"},
		"light": {"ideal": "bright indirect", "current": "adequate", "adjustment": "none"},
		"fertilizer": {"type": "balanced liquid", "frequency": "monthly", "nextApplication": "next week"},
		"pruning": {"needed": "true", "instructions": "Remove damaged leaves", "when": "spring"},
		"repotting": {"needed": false, "signs": "roots at drainage holes", "recommendedPotSize": "30cm"},
		"seasonal": "Reduce watering in winter"
	},
	"funFact": "Its fruit tastes like pineapple and banana."
}`

func TestResponseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		out := Response(raw)
		if out.Status != domain.StatusEmpty {
			t.Fatalf("Response(%q) status = %s, want empty", raw, out.Status)
		}
		if out.Result != nil || out.ContentHash != "" {
			t.Fatalf("Response(%q) = %+v, want no result and no hash", raw, out)
		}
	}
}

func TestResponseStructuredRoundTrip(t *testing.T) {
	out := Response(fullResponse)
	if out.Status != domain.StatusOK {
		t.Fatalf("status = %s, want ok", out.Status)
	}
	if out.ContentHash == "" || len(out.ContentHash) != 8 {
		t.Fatalf("unexpected content hash %q", out.ContentHash)
	}
	res := out.Result
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Identification.CommonName != "Monstera" || res.Identification.ScientificName != "Monstera deliciosa" {
		t.Fatalf("unexpected identification %+v", res.Identification)
	}
	if res.Identification.Confidence != "high" {
		t.Fatalf("confidence = %q, want high", res.Identification.Confidence)
	}
	if res.HealthAssessment.Score != 8 || res.HealthAssessment.Summary != "Healthy with minor browning" {
		t.Fatalf("unexpected health assessment %+v", res.HealthAssessment)
	}
	if len(res.HealthAssessment.Issues) != 1 || res.HealthAssessment.Issues[0].Name != "Leaf browning" {
		t.Fatalf("unexpected issues %+v", res.HealthAssessment.Issues)
	}
	if len(res.ImmediateActions) != 1 || res.ImmediateActions[0].Priority != "when_convenient" {
		t.Fatalf("unexpected actions %+v", res.ImmediateActions)
	}
	if res.CarePlan == nil || res.CarePlan.Watering.Frequency != "every 7-10 days" {
		t.Fatalf("unexpected care plan %+v", res.CarePlan)
	}
	// String and native booleans must both decode.
	if !bool(res.CarePlan.Pruning.Needed) {
		t.Fatal("pruning.needed: string \"true\" should decode as true")
	}
	if bool(res.CarePlan.Repotting.Needed) {
		t.Fatal("repotting.needed: native false should decode as false")
	}
	if res.FunFact == "" {
		t.Fatal("expected fun fact to survive the round trip")
	}
}

func TestResponseAppliesDefaults(t *testing.T) {
	out := Response(`{"identification": {"commonName": "Pothos"}, "healthAssessment": {"summary": "fine"}}`)
	if out.Status != domain.StatusOK {
		t.Fatalf("status = %s, want ok", out.Status)
	}
	if out.Result.Identification.Confidence != "low" {
		t.Fatalf("missing confidence should default to low, got %q", out.Result.Identification.Confidence)
	}
	if out.Result.HealthAssessment.Score != 5 {
		t.Fatalf("missing score should default to 5, got %d", out.Result.HealthAssessment.Score)
	}
}

func TestResponseEmptyObjectIsStructured(t *testing.T) {
	out := Response(`{}`)
	if out.Status != domain.StatusOK {
		t.Fatalf("status = %s, want ok", out.Status)
	}
	if out.Result.Identification == nil || out.Result.Identification.Confidence != "low" {
		t.Fatalf("expected defaulted identification, got %+v", out.Result.Identification)
	}
	if out.Result.HealthAssessment == nil || out.Result.HealthAssessment.Score != 5 {
		t.Fatalf("expected defaulted health assessment, got %+v", out.Result.HealthAssessment)
	}
}

func TestResponseStripsMarkdownFences(t *testing.T) {
	out := Response("```json\n{\"identification\": {\"commonName\": \"Fern\"}}\n```")
	if out.Status != domain.StatusOK {
		t.Fatalf("status = %s, want ok", out.Status)
	}
	if out.Result.Identification.CommonName != "Fern" {
		t.Fatalf("unexpected result %+v", out.Result.Identification)
	}
}

func TestResponseSalvageFromTruncatedJSON(t *testing.T) {
	raw := `{"identification": {"commonName": "Snake Plant", "scientificName": "Dracaena trifasciata", "confidence": "medium"}, "healthAssessment": {"score": 6, "summary": "Slightly over`
	out := Response(raw)
	if out.Status != domain.StatusPartial {
		t.Fatalf("status = %s, want partial", out.Status)
	}
	res := out.Result
	if res.Identification.CommonName != "Snake Plant" {
		t.Fatalf("commonName = %q", res.Identification.CommonName)
	}
	if res.Identification.ScientificName != "Dracaena trifasciata" {
		t.Fatalf("scientificName = %q", res.Identification.ScientificName)
	}
	if res.Identification.Confidence != "medium" {
		t.Fatalf("confidence = %q", res.Identification.Confidence)
	}
	if res.HealthAssessment.Score != 6 {
		t.Fatalf("score = %d", res.HealthAssessment.Score)
	}
	// Tier-2 fields are dropped silently on salvage.
	if res.CarePlan != nil || res.ImmediateActions != nil || res.FunFact != "" {
		t.Fatalf("expected tier-2 fields to be absent, got %+v", res)
	}
}

func TestResponseSalvageDefaults(t *testing.T) {
	// Only a common name is recoverable; the rest falls back to defaults.
	out := Response(`garbled preamble "commonName":"Aloe" and then nothing useful`)
	if out.Status != domain.StatusPartial {
		t.Fatalf("status = %s, want partial", out.Status)
	}
	if out.Result.Identification.CommonName != "Aloe" {
		t.Fatalf("commonName = %q", out.Result.Identification.CommonName)
	}
	if out.Result.Identification.Confidence != "low" {
		t.Fatalf("confidence = %q, want low", out.Result.Identification.Confidence)
	}
	if out.Result.HealthAssessment.Score != 5 {
		t.Fatalf("score = %d, want default 5", out.Result.HealthAssessment.Score)
	}
}

func TestResponseFailed(t *testing.T) {
	for _, raw := range []string{
		"I am sorry, I cannot identify this plant.",
		"null",
		"[1, 2, 3]",
		"<html>502 Bad Gateway</html>",
	} {
		out := Response(raw)
		if out.Status != domain.StatusFailed {
			t.Fatalf("Response(%q) status = %s, want failed", raw, out.Status)
		}
		if out.Result != nil {
			t.Fatalf("Response(%q) returned a result", raw)
		}
		if out.ContentHash == "" {
			t.Fatalf("Response(%q) should still carry a content hash", raw)
		}
	}
}

func TestContentHashStable(t *testing.T) {
	a := Response(`{"funFact": "x"}`)
	b := Response(`{"funFact": "x"}`)
	c := Response(`{"funFact": "y"}`)
	if a.ContentHash != b.ContentHash {
		t.Fatalf("same input produced different hashes: %s vs %s", a.ContentHash, b.ContentHash)
	}
	if a.ContentHash == c.ContentHash {
		t.Fatal("different inputs produced the same short hash")
	}
}
