package normalize

import (
	"time"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
)

// Variant normalizes one copy variant and stamps it with id.
func Variant(v any, id models.VariantID) models.CopyVariant {
	obj, ok := object(v)
	if !ok {
		obj = map[string]any{}
	}
	score := Number(obj["engagementScore"], models.MinEngagementScore)
	if score < models.MinEngagementScore {
		score = models.MinEngagementScore
	}
	if score > models.MaxEngagementScore {
		score = models.MaxEngagementScore
	}
	return models.CopyVariant{
		ID:              id,
		Title:           String(obj, "title", ""),
		Body:            String(obj, "body", ""),
		Hook:            String(obj, "hook", ""),
		CTA:             String(obj, "cta", ""),
		Tags:            StringSlice(obj["tags"]),
		PostingTime:     String(obj, "postingTime", ""),
		EngagementScore: score,
	}
}

// Variants always returns exactly one variant per id in models.VariantIDs.
// Each slot takes the first object carrying its id; slots left empty are
// filled in order from objects whose id is missing or unknown, and any slot
// still empty gets a blank variant.
func Variants(v any) []models.CopyVariant {
	list, _ := v.([]any)

	slots := make(map[models.VariantID]map[string]any, len(models.VariantIDs))
	var unlabeled []map[string]any
	for _, item := range list {
		obj, ok := object(item)
		if !ok {
			continue
		}
		id := models.VariantID(String(obj, "id", ""))
		if !id.Valid() {
			unlabeled = append(unlabeled, obj)
			continue
		}
		if _, taken := slots[id]; !taken {
			slots[id] = obj
		}
	}

	out := make([]models.CopyVariant, 0, len(models.VariantIDs))
	for _, id := range models.VariantIDs {
		obj, ok := slots[id]
		if !ok && len(unlabeled) > 0 {
			obj, unlabeled = unlabeled[0], unlabeled[1:]
		}
		out = append(out, Variant(obj, id))
	}
	return out
}

// PlatformContent builds a platform's content from a decoded object. The
// platform identity comes from the caller, not from the payload.
func PlatformContent(id models.PlatformID, name string, obj map[string]any) models.PlatformContent {
	return models.PlatformContent{
		PlatformID:   id,
		PlatformName: name,
		Variants:     Variants(obj["variants"]),
	}
}

// DecodePlatformContent parses raw model output for one platform.
func DecodePlatformContent(id models.PlatformID, name, raw string) (models.PlatformContent, error) {
	obj, err := DecodeObject(raw)
	if err != nil {
		return models.PlatformContent{}, err
	}
	return PlatformContent(id, name, obj), nil
}

// SellingPack normalizes a stored pack. It reports false when v is not an
// object. Platform entries that are not objects or name an unknown platform
// are dropped.
func SellingPack(v any, generatedAt time.Time) (models.SellingPack, bool) {
	obj, ok := object(v)
	if !ok {
		return models.SellingPack{}, false
	}

	product, ok := object(obj["product"])
	if !ok {
		product = map[string]any{}
	}

	platforms := []models.PlatformContent{}
	if list, ok := obj["platforms"].([]any); ok {
		for _, item := range list {
			pc, ok := object(item)
			if !ok {
				continue
			}
			id := models.PlatformID(String(pc, "platformId", ""))
			if !id.Valid() {
				continue
			}
			platforms = append(platforms, PlatformContent(id, String(pc, "platformName", ""), pc))
		}
	}

	return models.SellingPack{
		Product:     Product(product),
		Platforms:   platforms,
		GeneratedAt: Time(obj["generatedAt"], generatedAt),
	}, true
}
