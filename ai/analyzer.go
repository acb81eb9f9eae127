package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"strings"
)

const analysisPrompt = `Analyze this food image and provide detailed nutritional information. Return a JSON response with the following structure:
{
    "food_items": ["list of identified food items"],
    "confidence_score": 0.85,
    "nutritional_info": {
        "calories": 250.5,
        "protein_g": 15.2,
        "carbohydrates_g": 30.1,
        "total_fat_g": 8.5,
        "saturated_fat_g": 3.2,
        "fiber_g": 5.1,
        "sugar_g": 12.3,
        "sodium_mg": 450.0
    },
    "estimated_portion_g": 150.0,
    "vitamins": {
        "vitamin_c_mg": 25.0,
        "vitamin_a_iu": 500.0,
        "folate_mcg": 40.0
    },
    "minerals": {
        "calcium_mg": 120.0,
        "iron_mg": 2.1,
        "potassium_mg": 300.0
    },
    "allergens": [
        {
            "name": "gluten",
            "confidence": 0.9,
            "detected_in": "bread"
        }
    ]
}

Be as accurate as possible. For foods you can't identify clearly, set confidence_score lower.
Include common allergens like: gluten, dairy, eggs, nuts, shellfish, soy, fish.
All nutritional values should be per 100g unless otherwise specified.`

// Analyzer submits food images to a ChatCompleter and extracts the JSON
// document from the model's reply.
type Analyzer struct {
	completer   ChatCompleter
	model       string
	maxTokens   int
	temperature float64
}

func NewAnalyzer(completer ChatCompleter, model string, maxTokens int, temperature float64) *Analyzer {
	return &Analyzer{completer: completer, model: model, maxTokens: maxTokens, temperature: temperature}
}

// Model returns the identifier recorded on analyses this analyzer produces.
func (a *Analyzer) Model() string {
	return a.model
}

// Analyze sends imageData to the model and returns the parsed JSON result,
// or nil when the provider is unreachable or the reply is not valid JSON
// after unwrapping any code fence.
func (a *Analyzer) Analyze(ctx context.Context, imageData []byte) map[string]interface{} {
	req := ChatRequest{
		Model:       a.model,
		Prompt:      analysisPrompt,
		ImageURL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData),
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	}

	content, err := a.completer.Complete(ctx, req)
	if err != nil {
		log.Printf("ai: analysis request failed: %v", err)
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(ExtractJSON(content)), &result); err != nil {
		log.Printf("ai: failed to parse analysis response as JSON: %v", err)
		return nil
	}
	return result
}

// ExtractJSON strips a markdown code fence, with or without a json
// language tag, from a model reply. Replies without a fence are returned
// trimmed. Only these two fixed prefixes are recognized; anything else is
// left for the JSON parser to reject.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "```json"); start >= 0 {
		rest := text[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if start := strings.Index(text, "```"); start >= 0 {
		rest := text[start+len("```"):]
		if end := strings.LastIndex(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return text
}
