// Package parse turns a raw vision model response into a structured
// PlantAnalysis plus a coarse reliability classification. A strict schema
// decode is tried first; when the model truncates or malforms its output, a
// fixed set of single-field patterns salvages the identification and health
// basics rather than losing the whole response.
package parse

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"plantbot/internal/domain"
)

// Outcome is the transient result of parsing one response.
type Outcome struct {
	Result *domain.PlantAnalysis
	Status domain.ReliabilityStatus

	// ContentHash correlates log lines across layers without persisting
	// the raw text twice.
	ContentHash string
}

// Salvage patterns: independent, flat scans over the raw text. They must
// tolerate truncated JSON, missing braces and stray tokens, so each field
// stands alone instead of relying on a second structured parse.
var (
	commonNameRe = regexp.MustCompile(`"commonName"\s*:\s*"([^"]*)"`)
	sciNameRe    = regexp.MustCompile(`"scientificName"\s*:\s*"([^"]*)"`)
	confidenceRe = regexp.MustCompile(`"confidence"\s*:\s*"(low|medium|high)"`)
	scoreRe      = regexp.MustCompile(`"score"\s*:\s*(-?\d+)`)
	summaryRe    = regexp.MustCompile(`"summary"\s*:\s*"([^"]*)"`)
)

// Response classifies and decodes a raw response string.
func Response(raw string) Outcome {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Outcome{Status: domain.StatusEmpty}
	}

	hash := contentHash(raw)
	cleaned := stripFences(trimmed)

	if strings.HasPrefix(cleaned, "{") {
		var res domain.PlantAnalysis
		if err := json.Unmarshal([]byte(cleaned), &res); err == nil {
			applyDefaults(&res)
			return Outcome{Result: &res, Status: domain.StatusOK, ContentHash: hash}
		} else {
			log.Printf("parse structured failed hash=%s err=%v", hash, err)
		}
	} else {
		log.Printf("parse structured skipped hash=%s: not a JSON object", hash)
	}

	if res, fields := salvage(raw); fields > 0 {
		log.Printf("parse salvage recovered hash=%s fields=%d", hash, fields)
		return Outcome{Result: res, Status: domain.StatusPartial, ContentHash: hash}
	}

	log.Printf("parse salvage empty hash=%s", hash)
	return Outcome{Status: domain.StatusFailed, ContentHash: hash}
}

// contentHash is a short hex prefix of the response digest, enough to match
// log lines to a stored record.
func contentHash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:4])
}

// stripFences removes a markdown code fence the model sometimes wraps its
// JSON in.
func stripFences(s string) string {
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// applyDefaults fills the documented defaults for blocks the model omitted
// entirely. Blocks that were present got their defaults during decoding.
func applyDefaults(res *domain.PlantAnalysis) {
	if res.Identification == nil {
		res.Identification = &domain.Identification{Confidence: "low"}
	}
	if res.HealthAssessment == nil {
		res.HealthAssessment = &domain.HealthAssessment{Score: 5}
	}
}

// salvage recovers the high-value identification and health fields from
// otherwise unparsable text. Care plan, actions and fun fact are judged
// acceptable to drop: their absence degrades gracefully in the UI, while
// losing the plant's identity and score entirely does not.
func salvage(raw string) (*domain.PlantAnalysis, int) {
	ident := &domain.Identification{Confidence: "low"}
	health := &domain.HealthAssessment{Score: 5}
	fields := 0

	if m := commonNameRe.FindStringSubmatch(raw); m != nil {
		ident.CommonName = m[1]
		fields++
	}
	if m := sciNameRe.FindStringSubmatch(raw); m != nil {
		ident.ScientificName = m[1]
		fields++
	}
	if m := confidenceRe.FindStringSubmatch(raw); m != nil {
		ident.Confidence = m[1]
		fields++
	}
	if m := scoreRe.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			health.Score = n
			fields++
		}
	}
	if m := summaryRe.FindStringSubmatch(raw); m != nil {
		health.Summary = m[1]
		fields++
	}

	if fields == 0 {
		return nil, 0
	}
	return &domain.PlantAnalysis{
		Identification:   ident,
		HealthAssessment: health,
	}, fields
}
