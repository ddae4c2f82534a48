package gateway

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/virtualgoa/guidechat/internal/convo"
	"github.com/virtualgoa/guidechat/internal/media"
	"github.com/virtualgoa/guidechat/internal/request"
)

// DefaultModel is the generation model used unless overridden.
const DefaultModel = "gemini-2.5-flash"

// Gemini implements Provider on top of the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini constructs the provider. httpClient may be nil; passing one lets
// callers install timeouts or a debug transport underneath the SDK.
func NewGemini(ctx context.Context, apiKey, model string, httpClient *http.Client) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: init gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Model reports the configured model identifier.
func (g *Gemini) Model() string { return g.model }

// Generate implements Provider.
func (g *Gemini) Generate(ctx context.Context, req *request.Request) (string, error) {
	contents, err := contentsFor(req)
	if err != nil {
		return "", err
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.System)}},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gateway: generate content: %w", err)
	}
	return resp.Text(), nil
}

// contentsFor maps provider-neutral turns onto the wire types: history in
// order, current turn last.
func contentsFor(req *request.Request) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		c, err := contentFor(turn)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	current, err := contentFor(req.Current)
	if err != nil {
		return nil, err
	}
	return append(contents, current), nil
}

func contentFor(turn request.Turn) (*genai.Content, error) {
	parts := make([]*genai.Part, 0, len(turn.Parts))
	for _, p := range turn.Parts {
		switch part := p.(type) {
		case request.TextPart:
			parts = append(parts, genai.NewPartFromText(part.Text))
		case request.InlinePart:
			raw, err := media.Encoded{MIME: part.MIME, Data: part.Data}.Bytes()
			if err != nil {
				return nil, fmt.Errorf("gateway: decode inline media: %w", err)
			}
			parts = append(parts, genai.NewPartFromBytes(raw, part.MIME))
		default:
			return nil, fmt.Errorf("gateway: unknown part type %T", p)
		}
	}
	return genai.NewContentFromParts(parts, roleFor(turn.Role)), nil
}

func roleFor(r convo.Role) genai.Role {
	if r == convo.RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}
