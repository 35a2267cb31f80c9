package rank

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"pricescout/models"
)

// OpenAIRanker asks a hosted chat model to select relevant candidate
// indices. The model's reply is treated as untrusted plain text.
type OpenAIRanker struct {
	client *openai.Client
	policy Policy
}

// NewOpenAIRanker builds a ranker for the given API key and policy.
func NewOpenAIRanker(apiKey string, policy Policy) *OpenAIRanker {
	return &OpenAIRanker{
		client: openai.NewClient(apiKey),
		policy: policy,
	}
}

// Rank submits the labeled candidate list in one serialized call and parses
// the selected indices out of the reply.
func (r *OpenAIRanker) Rank(ctx context.Context, query string, candidates []models.ScrapedProduct) ([]int, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.policy.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(query, candidates, r.policy),
			},
		},
		MaxTokens:   200,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	return ParseIndices(reply, len(candidates)), nil
}

func buildPrompt(query string, candidates []models.ScrapedProduct, p Policy) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a product comparison expert. Given the search query %q, analyze the following products and select the MOST RELEVANT ones for price comparison.\n\n", query)
	b.WriteString("Instructions:\n")
	b.WriteString("- Select products that directly match the search query\n")
	b.WriteString("- PRIORITIZE DIVERSITY: Include products from different websites when possible for better price comparison\n")
	b.WriteString("- Exclude obvious accessories (cases, chargers, cables) unless specifically requested\n")
	b.WriteString("- Exclude fake/knockoff products (marked as \"fake\", \"replica\", \"clone\")\n")
	if p.DeprioritizedSource != "" {
		fmt.Fprintf(&b, "- Have %s products on low priority unless they are significantly cheaper and authentic\n", p.DeprioritizedSource)
	}
	b.WriteString("- Include authentic products with reasonable prices\n")
	fmt.Fprintf(&b, "- Select at max top %d most relevant products total from each website\n", p.PerSourceCap)
	b.WriteString("- When multiple similar products exist, prefer variety across different websites\n\n")

	b.WriteString("Products:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d: %s - %s - %s\n", i, c.Title, c.Price, c.Source)
	}

	b.WriteString("\nReturn only the indices of relevant products as a comma-separated list (e.g., \"0,2,5,7\"):\n")
	return b.String()
}
