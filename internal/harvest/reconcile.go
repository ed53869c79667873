package harvest

import "sort"

// Reconcile returns the requested identifiers missing from acc, sorted.
func Reconcile(requested []string, acc *Accumulator) []string {
	return ReconcileKeys(requested, acc.Keys())
}

// ReconcileKeys returns the requested identifiers not among captured, sorted
// and without duplicates. Both sides are compared in normalized form. The
// result is never nil.
func ReconcileKeys(requested, captured []string) []string {
	have := make(map[string]struct{}, len(captured))
	for _, id := range captured {
		have[NormalizeIdentifier(id)] = struct{}{}
	}
	missing := make([]string, 0)
	for _, id := range requested {
		key := NormalizeIdentifier(id)
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		missing = append(missing, id)
	}
	sort.Strings(missing)
	return missing
}
