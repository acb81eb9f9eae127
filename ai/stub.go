package ai

import (
	"context"
	"log"
)

// stubResponse mirrors the schema the analyzer asks the live model for,
// with a single unidentified item at low confidence so degraded operation
// still produces a persistable result.
const stubResponse = `{
    "food_items": ["unknown food"],
    "confidence_score": 0.1,
    "nutritional_info": {
        "calories": 0,
        "protein_g": 0,
        "carbohydrates_g": 0,
        "total_fat_g": 0
    },
    "allergens": []
}`

// StubClient is the offline ChatCompleter used when no AI provider is
// configured. It always answers with the same fixed low-confidence payload.
type StubClient struct{}

func NewStubClient() *StubClient {
	return &StubClient{}
}

func (c *StubClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	log.Printf("ai: no provider configured, returning stub analysis for model %s", req.Model)
	return stubResponse, nil
}
