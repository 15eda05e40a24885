package business

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Address is a tax-relevant US street address. Values are immutable;
// normalization returns a copy.
type Address struct {
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip5    string `json:"zip5"`
	Zip4    string `json:"zip4,omitempty"`
	Country string `json:"country"`
}

// streetSuffixes maps full street suffix words to their postal abbreviations.
var streetSuffixes = map[string]string{
	"STREET":    "ST",
	"AVENUE":    "AVE",
	"BOULEVARD": "BLVD",
	"DRIVE":     "DR",
	"LANE":      "LN",
	"ROAD":      "RD",
	"COURT":     "CT",
	"CIRCLE":    "CIR",
	"HIGHWAY":   "HWY",
	"PARKWAY":   "PKWY",
	"PLACE":     "PL",
	"TERRACE":   "TER",
	"SUITE":     "STE",
	"APARTMENT": "APT",
}

// Normalized returns a copy with fields uppercased, whitespace collapsed and
// street suffixes abbreviated, suitable for equality comparison and hashing.
func (a Address) Normalized() Address {
	return Address{
		Street1: normalizeStreet(a.Street1),
		Street2: normalizeStreet(a.Street2),
		City:    normalizeField(a.City),
		State:   normalizeField(a.State),
		Zip5:    strings.TrimSpace(a.Zip5),
		Zip4:    strings.TrimSpace(a.Zip4),
		Country: normalizeField(a.Country),
	}
}

// Valid reports whether the address is complete enough to submit to the
// compliance service: city, state and 5-digit zip must all be present.
func (a Address) Valid() bool {
	return strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.Zip5) != ""
}

// Equal reports whether two addresses match after normalization.
func (a Address) Equal(other Address) bool {
	return a.Normalized() == other.Normalized()
}

// Hash returns a stable content hash of the normalized address. Used as the
// verification-cache key.
func (a Address) Hash() string {
	n := a.Normalized()
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{
		n.Street1, n.Street2, n.City, n.State, n.Zip5, n.Zip4, n.Country,
	}, "|")))
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeField(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func normalizeStreet(s string) string {
	words := strings.Fields(strings.ToUpper(s))
	for i, w := range words {
		trimmed := strings.TrimSuffix(w, ".")
		if abbr, ok := streetSuffixes[trimmed]; ok {
			words[i] = abbr
		} else {
			words[i] = trimmed
		}
	}
	return strings.Join(words, " ")
}
