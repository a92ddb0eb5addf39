package space

// #region flatten

// Flatten turns a nested map of sampled values into a flat map with
// dotted parameter names, the shape repositories persist. Non-map
// values pass through; nested maps recurse with their path prefixed.
func Flatten(nested map[string]any) map[string]any {
	flat := make(map[string]any, len(nested))
	flattenInto(flat, "", nested)
	return flat
}

func flattenInto(flat map[string]any, prefix string, nested map[string]any) {
	for key, value := range nested {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			flattenInto(flat, name, sub)
			continue
		}
		flat[name] = value
	}
}

// #endregion flatten
