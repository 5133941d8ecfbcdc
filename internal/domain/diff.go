package domain

import "strings"

// Longest first, so the fully qualified form is stripped whole.
//
//nolint:gochecknoglobals // Read-only
var vendorPrefixes = []string{
	ProviderTag + "/" + ModelPathPrefix,
	ProviderTag + "/",
	ModelPathPrefix,
}

// NormalizeKey reduces a reference key or a scraped identifier to a comparable
// form: vendor path prefixes stripped, then lower-cased and trimmed.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	for _, prefix := range vendorPrefixes {
		if strings.HasPrefix(key, prefix) {
			key = strings.TrimPrefix(key, prefix)
			break
		}
	}
	return strings.ToLower(strings.TrimSpace(key))
}

// isVendorKey reports whether a reference key belongs to this vendor.
func isVendorKey(key string) bool {
	return strings.HasPrefix(key, ProviderTag+"/") || strings.HasPrefix(key, ModelPathPrefix)
}

// ExistingIdentifiers returns the normalized identifiers of every vendor
// entry in the reference dataset.
func ExistingIdentifiers(dataset *ReferenceDataset) map[string]struct{} {
	existing := make(map[string]struct{})
	if dataset == nil {
		return existing
	}

	for _, key := range dataset.Keys {
		if !isVendorKey(key) {
			continue
		}
		existing[NormalizeKey(key)] = struct{}{}
	}

	return existing
}

// FindMissing returns the records with no counterpart in the reference
// dataset, in input order.
//
// A record counts as present when its identifier, its identifier with
// dashes and underscores swapped, or its display-name slug matches a
// normalized vendor key.
func FindMissing(records []ModelRecord, dataset *ReferenceDataset) []ModelRecord {
	existing := ExistingIdentifiers(dataset)

	missing := make([]ModelRecord, 0)
	for _, r := range records {
		if !isPresent(r, existing) {
			missing = append(missing, r)
		}
	}

	return missing
}

func isPresent(r ModelRecord, existing map[string]struct{}) bool {
	for _, candidate := range candidateKeys(r) {
		if candidate == "" {
			continue
		}
		if _, ok := existing[NormalizeKey(candidate)]; ok {
			return true
		}
	}
	return false
}

func candidateKeys(r ModelRecord) []string {
	name := strings.ToLower(strings.TrimSpace(r.DisplayName))

	return []string{
		r.Identifier,
		strings.ReplaceAll(r.Identifier, "-", "_"),
		strings.ReplaceAll(r.Identifier, "_", "-"),
		strings.ReplaceAll(name, " ", "-"),
		strings.ReplaceAll(name, " ", "_"),
	}
}
