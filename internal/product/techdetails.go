package product

import "strings"

// TechnicalDetailsSeparator joins "Key: Value" pairs in ProductData.TechnicalDetails
const TechnicalDetailsSeparator = " | "

// ParseTechnicalDetails splits "Key: Value | Key2: Value2" text into a map keyed by the
// lower-cased key. Entries without a colon, or with an empty key or value, are dropped;
// later duplicates win
func ParseTechnicalDetails(tech string) map[string]string {
	out := make(map[string]string)

	for _, part := range strings.Split(tech, "|") {
		key, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		if key != "" && val != "" {
			out[key] = val
		}
	}

	return out
}

// JoinTechnicalDetails renders key/value rows in the pipe separated form site adapters emit
func JoinTechnicalDetails(rows [][2]string) string {
	parts := make([]string, 0, len(rows))

	for _, r := range rows {
		key, val := strings.TrimSpace(r[0]), strings.TrimSpace(r[1])
		if key == "" || val == "" {
			continue
		}

		parts = append(parts, key+": "+val)
	}

	return strings.Join(parts, TechnicalDetailsSeparator)
}
