package service

import "strings"

// canonicalLabels maps raw model class names onto the canonical equipment
// vocabulary the compliance policy speaks. Keys are lowercase. Labels not
// in the table pass through unchanged; unknown detections are never
// dropped, only left under their raw name.
var canonicalLabels = map[string]string{
	"hardhat":         "helmet",
	"hard-hat":        "helmet",
	"hard hat":        "helmet",
	"safety helmet":   "helmet",
	"safety vest":     "vest",
	"safety-vest":     "vest",
	"reflective vest": "vest",
	"face mask":       "mask",
	"dust mask":       "mask",
	"gas mask":        "mask",
	"glove":           "gloves",
	"safety gloves":   "gloves",
	"safety boots":    "boots",
	"safety shoes":    "boots",
	"safety glasses":  "goggles",
	"eye protection":  "goggles",
	"safety harness":  "harness",
	"safety belt":     "harness",
	"face shield":     "face_shield",
}

// CanonicalLabel normalizes a raw model label. Pure and idempotent:
// canonicalizing a label that is already canonical is a no-op.
func CanonicalLabel(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := canonicalLabels[key]; ok {
		return canonical
	}
	return key
}

// CanonicalSet canonicalizes a label list into a set.
func CanonicalSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if canonical := CanonicalLabel(label); canonical != "" {
			set[canonical] = struct{}{}
		}
	}
	return set
}
