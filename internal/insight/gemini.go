package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements TextParser and ReportWriter against the Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
}

var (
	_ TextParser   = (*GeminiClient)(nil)
	_ ReportWriter = (*GeminiClient)(nil)
)

// NewGeminiClient creates a Gemini-backed insight client
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// ParseExpense asks the model to extract a structured expense from pasted
// text. It expects STRICT JSON back and tolerates markdown fences anyway.
func (g *GeminiClient) ParseExpense(ctx context.Context, text string, allowedCategories []string) (*ParsedExpense, error) {
	prompt := buildParsePrompt(text, allowedCategories)

	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed ParsedExpense
	if err := json.Unmarshal([]byte(cleanModelJSON(raw, '{', '}')), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal model response: %w\nraw response: %s", err, raw)
	}
	return &parsed, nil
}

// WriteReport asks the model for a prose spending summary of one period
func (g *GeminiClient) WriteReport(ctx context.Context, req ReportRequest) (string, error) {
	prompt := buildReportPrompt(req)

	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func buildParsePrompt(text string, allowedCategories []string) string {
	var b strings.Builder
	b.WriteString("You are an expense extractor for a personal expense tracker.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Decide whether the pasted text below describes a single spend (a purchase, bill, transfer out, card notification).\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a single JSON object.\n\n")
	b.WriteString("The object must have these fields:\n")
	b.WriteString("- \"isExpense\": boolean\n")
	b.WriteString("- \"amount\": number (positive; omit when isExpense is false)\n")
	b.WriteString("- \"vendor\": string (merchant or payee; omit when isExpense is false)\n")
	b.WriteString("- \"category\": string (one of the allowed categories, or omit when unsure)\n")
	b.WriteString("- \"description\": string (short note; optional)\n\n")
	b.WriteString("Allowed categories:\n")
	for _, c := range allowedCategories {
		b.WriteString("  - " + c + "\n")
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- If the text is not about money leaving the user, return {\"isExpense\": false}.\n")
	b.WriteString("- Category must be EXACTLY one of the names above; if none fits, omit the field.\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Output must begin with \"{\" and end with \"}\".\n\n")
	b.WriteString("Text:\n")
	b.WriteString(text)
	return b.String()
}

func buildReportPrompt(req ReportRequest) string {
	var b strings.Builder
	b.WriteString("You are a personal-finance assistant writing a short spending summary.\n\n")
	b.WriteString(fmt.Sprintf("Period: %s\n", req.PeriodLabel))
	b.WriteString(fmt.Sprintf("Currency symbol: %s\n", req.CurrencySymbol))
	b.WriteString("Known categories: " + strings.Join(req.Categories, ", ") + "\n\n")
	b.WriteString("Expenses (date | vendor | category | amount):\n")
	for _, sp := range req.Splits {
		b.WriteString(fmt.Sprintf("%s | %s | %s | %s%s\n",
			sp.Date, sp.Vendor, sp.Category, req.CurrencySymbol, sp.Amount.StringFixed(2)))
	}
	b.WriteString("\nWrite 2-4 short paragraphs of plain prose separated by blank lines: ")
	b.WriteString("total spend, the biggest categories and vendors, and one practical observation. ")
	b.WriteString("No markdown, no headings, no bullet lists.\n")
	return b.String()
}

// cleanModelJSON strips markdown fences and surrounding junk the model may
// emit despite instructions, keeping only the outermost open..close span.
func cleanModelJSON(raw string, open, close byte) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json)
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.IndexByte(s, open); start != -1 {
		if end := strings.LastIndexByte(s, close); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
