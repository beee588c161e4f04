// Package vision performs the external AI round-trip: one photo in, one raw
// response string out. Parsing and classification of that string live in
// internal/parse; nothing here inspects the response body.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	log "github.com/sirupsen/logrus"
)

const defaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You are a plant identification and health expert. Analyze the photo and respond with a single JSON object, no prose and no markdown fences, using exactly these fields (all optional):
{
  "identification": {"commonName": "", "scientificName": "", "confidence": "low|medium|high", "notes": ""},
  "healthAssessment": {"score": 0, "summary": "", "issues": [{"name": "", "severity": "", "description": "", "affectedArea": ""}]},
  "immediateActions": [{"action": "", "priority": "urgent|soon|when_convenient", "detail": ""}],
  "carePlan": {
    "watering": {"frequency": "", "amount": "", "notes": ""},
    "light": {"ideal": "", "current": "", "adjustment": ""},
    "fertilizer": {"type": "", "frequency": "", "nextApplication": ""},
    "pruning": {"needed": false, "instructions": "", "when": ""},
    "repotting": {"needed": false, "signs": "", "recommendedPotSize": ""},
    "seasonal": ""
  },
  "funFact": ""
}
Health score is 1-10. Frequencies are short phrases like "every 7-10 days" or "monthly".`

type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// AnalyzePhoto sends the photo to the vision model and returns the raw
// response text. The caller owns timeout and retry policy via ctx.
func AnalyzePhoto(ctx context.Context, apiKey, model string, photo []byte) (string, Usage, error) {
	if model == "" {
		model = defaultModel
	}
	mediaType := http.DetectContentType(photo)
	encoded := base64.StdEncoding.EncodeToString(photo)

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	log.Printf("vision analyze model=%s photo_bytes=%d media_type=%s", model, len(photo), mediaType)

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, encoded),
				anthropic.NewTextBlock("Identify this plant and assess its health."),
			),
		},
	})
	if err != nil {
		log.Printf("vision anthropic error: %v", err)
		return "", Usage{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("vision response size=%d tokens_in=%d tokens_out=%d", len(block.Text), usage.InputTokens, usage.OutputTokens)
			return block.Text, usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}
