package history

import (
	"time"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/normalize"
)

func decodeItems(data []byte, now func() time.Time, newID func() string) []models.GenerateHistoryItem {
	items := []models.GenerateHistoryItem{}
	if len(data) == 0 {
		return items
	}

	raw, err := normalize.Decode(data)
	if err != nil {
		return items
	}
	list, ok := raw.([]any)
	if !ok {
		return items
	}

	for _, entry := range list {
		if item, ok := decodeItem(entry, now, newID); ok {
			items = append(items, item)
		}
	}
	return items
}

// decodeItem normalizes one stored record. Records that are not objects or
// lack an object-valued pack are rejected; every other field falls back to
// its default.
func decodeItem(v any, now func() time.Time, newID func() string) (models.GenerateHistoryItem, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return models.GenerateHistoryItem{}, false
	}

	createdAt := normalize.Time(obj["createdAt"], now().UTC())
	pack, ok := normalize.SellingPack(obj["pack"], createdAt)
	if !ok {
		return models.GenerateHistoryItem{}, false
	}

	id := normalize.String(obj, "id", "")
	if id == "" {
		id = newID()
	}

	var brandProfileID *string
	if s, ok := obj["brandProfileId"].(string); ok {
		brandProfileID = &s
	}

	return models.GenerateHistoryItem{
		ID:             id,
		CreatedAt:      createdAt,
		ProductText:    normalize.String(obj, "productText", ""),
		ProductURL:     normalize.String(obj, "productUrl", ""),
		Platforms:      decodePlatforms(obj["platforms"]),
		UseBrandVoice:  normalize.Bool(obj["useBrandVoice"]),
		BrandProfileID: brandProfileID,
		PublishMode:    models.ParsePublishMode(normalize.String(obj, "publishMode", "")),
		ConversionGoal: models.ParseConversionGoal(normalize.String(obj, "conversionGoal", "")),
		FocusAngle:     normalize.String(obj, "focusAngle", ""),
		Pack:           pack,
	}, true
}

// decodePlatforms keeps known platform ids; anything that leaves the list
// empty falls back to the default pair.
func decodePlatforms(v any) []models.PlatformID {
	var ids []models.PlatformID
	for _, s := range normalize.StringSlice(v) {
		if id := models.PlatformID(s); id.Valid() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return models.DefaultPlatforms()
	}
	return ids
}
