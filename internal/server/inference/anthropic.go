package inference

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/winelog/winelog/internal/common"
)

// AnthropicProvider implements Provider on top of the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicProvider(client anthropic.Client, model string) *AnthropicProvider {
	return &AnthropicProvider{client: client, model: anthropic.Model(model)}
}

const describePrompt = `You are a professional wine sommelier. Analyze these wine bottle photos (front and back label) and extract the wine's details.

Fields you cannot determine must be empty strings (""), never null or undefined.

Extract:
- name: the wine name exactly as printed on the label
- grape: the grape variety
- origin: country and region
- year: the vintage year (digits)
- type: one of red, white, sparkling, rose, icewine, natural, dessert
- alcohol: alcohol by volume as a number, e.g. "13.5"

Respond with ONLY a JSON object in this exact shape:
{"name": "", "grape": "", "origin": "", "year": "", "type": "", "alcohol": ""}

Output only the JSON. No markdown, no explanations.`

// DescribeWineFromImages sends the label photos to the model and parses the
// JSON it returns. A response without a valid JSON object is an error.
func (p *AnthropicProvider) DescribeWineFromImages(ctx context.Context, images [][]byte) (*WineDescription, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(images)+1)
	for _, img := range images {
		mediaType := http.DetectContentType(img)
		blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(img)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(describePrompt))

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInferenceFailed, err)
	}
	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("%w: empty response", common.ErrMalformedResponse)
	}

	desc := &WineDescription{}
	if err := decodeResponse(msg.Content[0].Text, desc); err != nil {
		return nil, err
	}
	return desc, nil
}

const tastePromptFmt = `You are a professional wine sommelier. Produce concise tasting notes for this wine.

Wine name: %s
Origin: %s
Grape: %s
Vintage: %s
Type: %s

Each descriptor is a short comma-separated tag list (e.g. "floral, red fruit, truffle").

Respond with ONLY a JSON object in this exact shape:
{"aroma": "", "taste": "", "finish": "", "sweetness": 0, "acidity": 0, "tannin": 0, "body": 0}

The four scores are integers from 0 to 100 where 50 is neutral.
Output only the JSON. No markdown, no explanations.`

// TasteProfile asks the model for tasting notes for an identified wine.
func (p *AnthropicProvider) TasteProfile(ctx context.Context, req TasteRequest) (*TastingNotes, error) {
	prompt := fmt.Sprintf(tastePromptFmt,
		orUnknown(req.Name), orUnknown(req.Origin), orUnknown(req.Grape), orUnknown(req.Year), orUnknown(req.Type))

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInferenceFailed, err)
	}
	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("%w: empty response", common.ErrMalformedResponse)
	}

	notes := &TastingNotes{}
	if err := decodeResponse(msg.Content[0].Text, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// decodeResponse extracts the first JSON object from the model output and
// unmarshals it into v.
func decodeResponse(text string, v any) error {
	jsonStr, err := extractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return nil
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", common.ErrMalformedResponse)
	}
	return s[start : end+1], nil
}
