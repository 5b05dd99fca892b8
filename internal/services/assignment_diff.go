package services

import (
	"sort"

	"github.com/propserve/brokerage-api/internal/models"
)

// vendorServicePair is one (vendor, service) assignment, independent of
// which property it belongs to.
type vendorServicePair struct {
	VendorID  int64
	ServiceID int64
}

// missingIDs returns the requested ids that are not in existing, sorted.
func missingIDs(requested, existing []int64) []int64 {
	have := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		have[id] = struct{}{}
	}
	missing := []int64{}
	seen := make(map[int64]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// buildPairs crosses the requested vendors and services with the actual
// offerings, keeping only combinations the vendor really offers.
func buildPairs(vendorIDs, serviceIDs []int64, offerings []models.VendorService) []vendorServicePair {
	wantVendor := make(map[int64]struct{}, len(vendorIDs))
	for _, id := range vendorIDs {
		wantVendor[id] = struct{}{}
	}
	wantService := make(map[int64]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		wantService[id] = struct{}{}
	}

	pairs := []vendorServicePair{}
	seen := map[vendorServicePair]struct{}{}
	for _, o := range offerings {
		if _, ok := wantVendor[o.VendorID]; !ok {
			continue
		}
		if _, ok := wantService[o.ServiceID]; !ok {
			continue
		}
		p := vendorServicePair{VendorID: o.VendorID, ServiceID: o.ServiceID}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].VendorID != pairs[j].VendorID {
			return pairs[i].VendorID < pairs[j].VendorID
		}
		return pairs[i].ServiceID < pairs[j].ServiceID
	})
	return pairs
}

// coverageGaps reports requested services no chosen vendor covers, and
// chosen vendors that cover none of the requested services.
func coverageGaps(serviceIDs, vendorIDs []int64, pairs []vendorServicePair) (uncovered, idleVendors []int64) {
	covered := make(map[int64]struct{}, len(pairs))
	busy := make(map[int64]struct{}, len(pairs))
	for _, p := range pairs {
		covered[p.ServiceID] = struct{}{}
		busy[p.VendorID] = struct{}{}
	}

	uncovered = []int64{}
	for _, id := range dedupe(serviceIDs) {
		if _, ok := covered[id]; !ok {
			uncovered = append(uncovered, id)
		}
	}
	idleVendors = []int64{}
	for _, id := range dedupe(vendorIDs) {
		if _, ok := busy[id]; !ok {
			idleVendors = append(idleVendors, id)
		}
	}
	return uncovered, idleVendors
}

// samePairSet compares the stored assignments with the desired pairs as
// sets, so reordering the request changes nothing.
func samePairSet(current []models.PropertyService, desired []vendorServicePair) bool {
	if len(pairSet(current)) != len(desired) {
		return false
	}
	cur := pairSet(current)
	for _, p := range desired {
		if _, ok := cur[p]; !ok {
			return false
		}
	}
	return true
}

// diffVendorSets returns vendors newly present in desired and vendors
// dropped from current, for notification purposes.
func diffVendorSets(current []models.PropertyService, desired []vendorServicePair) (added, removed []int64) {
	curVendors := map[int64]struct{}{}
	for _, c := range current {
		curVendors[c.VendorID] = struct{}{}
	}
	newVendors := map[int64]struct{}{}
	for _, d := range desired {
		newVendors[d.VendorID] = struct{}{}
	}

	added = []int64{}
	for v := range newVendors {
		if _, ok := curVendors[v]; !ok {
			added = append(added, v)
		}
	}
	removed = []int64{}
	for v := range curVendors {
		if _, ok := newVendors[v]; !ok {
			removed = append(removed, v)
		}
	}
	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return added, removed
}

func pairSet(current []models.PropertyService) map[vendorServicePair]struct{} {
	set := make(map[vendorServicePair]struct{}, len(current))
	for _, c := range current {
		set[vendorServicePair{VendorID: c.VendorID, ServiceID: c.ServiceID}] = struct{}{}
	}
	return set
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortedIDs dedupes and sorts, for deterministic response payloads.
func sortedIDs(ids []int64) []int64 {
	out := dedupe(ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
