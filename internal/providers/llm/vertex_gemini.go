package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	var opts []option.ClientOption
	if creds := os.Getenv("VERTEX_CREDENTIALS_FILE"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Justify(ctx context.Context, subject string, candidates []MatchCandidate) (string, error) {
	prompt := buildPrompt(subject, candidates)

	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				out.WriteString(string(t))
			}
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("empty judge response")
	}
	return text, nil
}

func buildPrompt(subject string, candidates []MatchCandidate) string {
	var b strings.Builder
	b.WriteString("You review match results on an academic mentoring platform. ")
	b.WriteString("Explain briefly, in 2-4 sentences, why the top candidates fit. ")
	b.WriteString("Do not re-rank and do not invent facts.\n\nSubject:\n")
	b.WriteString(subject)
	b.WriteString("\n\nRanked candidates:\n")
	for i, c := range candidates {
		score := "n/a"
		if c.Score != nil {
			score = fmt.Sprintf("%.3f", *c.Score)
		}
		fmt.Fprintf(&b, "%d. %s (score %s)", i+1, c.Label, score)
		if c.Summary != "" {
			b.WriteString(": ")
			b.WriteString(c.Summary)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
