package schema

// Detect returns the first registered type whose signature is fully contained
// in the given header. Column names are compared after Normalize.
func Detect(columns []string) (*EntityType, error) {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[Normalize(c)] = struct{}{}
	}
	for _, t := range registry {
		if hasAll(present, t.Signature) {
			return t, nil
		}
	}
	return nil, &DetectionError{Columns: append([]string(nil), columns...)}
}

func hasAll(set map[string]struct{}, keys []string) bool {
	for _, k := range keys {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}
