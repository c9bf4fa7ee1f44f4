package core

import "golang.org/x/text/cases"

// FoldName is the dedup key for a company name. Only case is folded;
// whitespace and punctuation are significant.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// Dedup keeps the first item for each folded name, in input order. Callers
// that prefer one source over another must pass that source's items first.
func Dedup[T any](items []T, name func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		key := FoldName(name(item))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// DedupCompanies is Dedup over CompanyRecord names.
func DedupCompanies(records []CompanyRecord) []CompanyRecord {
	return Dedup(records, func(r CompanyRecord) string { return r.Name })
}
