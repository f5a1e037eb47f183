package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"bitbucket.org/darshanedu/insight_backend/config"
	"bitbucket.org/darshanedu/insight_backend/models/reports"
	"google.golang.org/genai"
)

const defaultInsightModel = "gemini-2.0-flash"

// Chart placeholders the detailed report may embed. The presentation
// layer swaps them for rendered charts, so the text must carry them
// verbatim.
var chartPlaceholders = []string{
	"[CHART: REVENUE_EXPENSE_TREND]",
	"[CHART: EXPENSE_BREAKDOWN]",
	"[CHART: ENROLLMENT_TREND]",
	"[CHART: SURPLUS_MARGIN]",
}

const insightSystemInstruction = `You are a financial analyst for a network of schools. ` +
	`You are given per-branch summaries with revenue in crores (Cr) and surplus and concessions in lakhs (L). ` +
	`Answer the question using only the supplied data. Be concise, cite branch names, and flag High or Critical risk branches explicitly.`

var detailedReportSystemInstruction = fmt.Sprintf(`You are a financial analyst writing a board-level review for a network of schools. `+
	`You are given per-branch summaries with revenue in crores (Cr) and surplus and concessions in lakhs (L). `+
	`Structure the report with sections for overall performance, revenue, expenses, admissions and risks. `+
	`Where a chart would help, insert exactly one of these placeholder tokens on its own line, verbatim: %s, %s, %s, %s. `+
	`Do not invent figures not present in the data.`,
	chartPlaceholders[0], chartPlaceholders[1], chartPlaceholders[2], chartPlaceholders[3])

func newInsightClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not configured")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func insightModel() string {
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		return model
	}
	return defaultInsightModel
}

func generate(ctx context.Context, systemInstruction string, prompt string, branches []reports.BranchSummary, temperature float32) (string, error) {
	client, err := newInsightClient(ctx)
	if err != nil {
		return "", err
	}

	contextJSON, err := json.Marshal(branches)
	if err != nil {
		return "", err
	}
	fullPrompt := fmt.Sprintf("%s\n\nBranch data:\n%s", prompt, string(contextJSON))

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}
	result, err := client.Models.GenerateContent(ctx, insightModel(), genai.Text(fullPrompt), cfg)
	if err != nil {
		config.LogError(config.GetLogger(), "workflow", "generate", "Error generating narrative", insightModel(), err)
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("the model returned an empty response")
	}
	return text, nil
}

// GenerateInsight answers an ad-hoc question over the branch summaries.
func GenerateInsight(ctx context.Context, prompt string, branches []reports.BranchSummary) (string, error) {
	return generate(ctx, insightSystemInstruction, prompt, branches, 0.3)
}

// GenerateDetailedReport produces the long-form review with chart
// placeholder tokens embedded for the presentation layer.
func GenerateDetailedReport(ctx context.Context, branches []reports.BranchSummary) (string, error) {
	prompt := "Write the detailed performance review for the branches below."
	return generate(ctx, detailedReportSystemInstruction, prompt, branches, 0.5)
}
