package normalize

import "github.com/BerylCAtieno/sellboost-agent/internal/models"

// AudienceSegment normalizes one audience entry. Non-objects become an empty
// segment rather than being dropped, so segment positions are preserved.
func AudienceSegment(v any) models.AudienceSegment {
	obj, ok := object(v)
	if !ok {
		return models.AudienceSegment{PainPoints: []string{}}
	}
	return models.AudienceSegment{
		Label:       String(obj, "label", ""),
		Description: String(obj, "description", ""),
		PainPoints:  StringSlice(obj["painPoints"]),
	}
}

// Product builds an AnalyzedProduct from a decoded object.
func Product(obj map[string]any) models.AnalyzedProduct {
	segments := []models.AudienceSegment{}
	if list, ok := obj["audienceSegments"].([]any); ok {
		for _, item := range list {
			segments = append(segments, AudienceSegment(item))
		}
	}

	return models.AnalyzedProduct{
		Name:              String(obj, "name", models.DefaultProductName),
		Category:          String(obj, "category", ""),
		USPs:              StringSlice(obj["usps"]),
		AudienceSegments:  segments,
		PricePositioning:  String(obj, "pricePositioning", ""),
		EmotionalTriggers: StringSlice(obj["emotionalTriggers"]),
		Differentiators:   StringSlice(obj["differentiators"]),
		Summary:           String(obj, "summary", ""),
	}
}

// DecodeProduct parses raw model output into an AnalyzedProduct.
func DecodeProduct(raw string) (models.AnalyzedProduct, error) {
	obj, err := DecodeObject(raw)
	if err != nil {
		return models.AnalyzedProduct{}, err
	}
	return Product(obj), nil
}
