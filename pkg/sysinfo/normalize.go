package sysinfo

import (
	"math"
	"slices"
	"sort"
	"strings"
)

// Normalize returns a canonical copy of the fingerprint: MAC addresses
// sorted, drives sorted by serial, and coordinates rounded to 4 decimal
// places. The motherboard serial is left untouched. Normalizing both sides
// before comparison means transport ordering and floating-point jitter
// cannot cause false mismatches.
func Normalize(fp Fingerprint) Fingerprint {
	out := Fingerprint{
		MACAddresses:      slices.Clone(fp.MACAddresses),
		Drives:            slices.Clone(fp.Drives),
		MotherboardSerial: fp.MotherboardSerial,
		Latitude:          round4(fp.Latitude),
		Longitude:         round4(fp.Longitude),
	}

	sort.Strings(out.MACAddresses)
	sort.Slice(out.Drives, func(i, j int) bool {
		return out.Drives[i].Serial < out.Drives[j].Serial
	})
	return out
}

// NormalizeAll normalizes each fingerprint in the history.
func NormalizeAll(history []Fingerprint) []Fingerprint {
	out := make([]Fingerprint, len(history))
	for i, fp := range history {
		out[i] = Normalize(fp)
	}
	return out
}

// Equal reports whether two fingerprints are identical after normalization.
func Equal(a, b Fingerprint) bool {
	na, nb := Normalize(a), Normalize(b)
	return slices.Equal(na.MACAddresses, nb.MACAddresses) &&
		slices.Equal(na.Drives, nb.Drives) &&
		na.MotherboardSerial == nb.MotherboardSerial &&
		na.Latitude == nb.Latitude &&
		na.Longitude == nb.Longitude
}

// Matches reports whether the current fingerprint equals any snapshot in
// the trusted history. Membership, not single-record equality: the history
// may hold several trusted snapshots.
func Matches(history []Fingerprint, current Fingerprint) bool {
	for _, trusted := range history {
		if Equal(trusted, current) {
			return true
		}
	}
	return false
}

// Key returns a stable string form of the normalized fingerprint, useful
// for deduplication.
func Key(fp Fingerprint) string {
	n := Normalize(fp)

	var b strings.Builder
	b.WriteString(strings.Join(n.MACAddresses, ","))
	b.WriteByte('|')
	for _, d := range n.Drives {
		b.WriteString(d.Model)
		b.WriteByte(':')
		b.WriteString(d.Serial)
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(n.MotherboardSerial)
	return b.String()
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
