package ai

import (
	"fmt"
	"strings"
)

// MethodGenerateContent is the capability required for chapter generation.
const MethodGenerateContent = "generateContent"

// SelectModel picks the model to use from a capability list.
// A preferred id wins when it is listed and supports method; otherwise the first
// qualifying entry in list order is returned. No qualifying entry is ErrNoModel.
func SelectModel(models []Model, method, preferred string) (Model, error) {
	if preferred != "" {
		want := NormalizeModelName(preferred)
		for _, m := range models {
			if NormalizeModelName(m.Name) == want && m.Supports(method) {
				return m, nil
			}
		}
	}
	for _, m := range models {
		if m.Supports(method) {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %s (checked %d models)", ErrNoModel, method, len(models))
}

// NormalizeModelName prefixes a bare model id with "models/".
func NormalizeModelName(name string) string {
	if strings.HasPrefix(name, "models/") {
		return name
	}
	return "models/" + name
}
