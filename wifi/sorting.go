package wifi

import "sort"

// SortNetworks sorts a slice of networks in place for a stable display:
// signal strength descending, ties broken by SSID lexical order. The sort is
// stable so repeated identical scans produce an identical ordering.
func SortNetworks(networks []Network) {
	sort.SliceStable(networks, func(i, j int) bool {
		a := networks[i]
		b := networks[j]
		if a.Strength != b.Strength {
			return a.Strength > b.Strength
		}
		return a.SSID < b.SSID
	})
}
