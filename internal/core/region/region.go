// Package region classifies Vietnamese province names into the three
// canonical sales regions. A closed lookup table with an explicit
// fallback bucket; no pattern matching, no I/O
package region

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical region buckets
const (
	North   = "North"
	Central = "Central"
	South   = "South"
	Other   = "Other"
)

// Regions returns the canonical buckets in reporting order, without Other
func Regions() []string { return []string{North, Central, South} }

var table = map[string]string{
	// North
	"ha noi":      North,
	"hanoi":       North,
	"hai phong":   North,
	"quang ninh":  North,
	"bac ninh":    North,
	"hai duong":   North,
	"hung yen":    North,
	"thai binh":   North,
	"nam dinh":    North,
	"ninh binh":   North,
	"ha nam":      North,
	"vinh phuc":   North,
	"phu tho":     North,
	"thai nguyen": North,
	"bac giang":   North,
	"lang son":    North,
	"cao bang":    North,
	"lao cai":     North,
	"yen bai":     North,
	"tuyen quang": North,
	"ha giang":    North,
	"bac kan":     North,
	"son la":      North,
	"dien bien":   North,
	"lai chau":    North,
	"hoa binh":    North,

	// Central
	"thanh hoa":      Central,
	"nghe an":        Central,
	"ha tinh":        Central,
	"quang binh":     Central,
	"quang tri":      Central,
	"thua thien hue": Central,
	"hue":            Central,
	"da nang":        Central,
	"quang nam":      Central,
	"quang ngai":     Central,
	"binh dinh":      Central,
	"phu yen":        Central,
	"khanh hoa":      Central,
	"ninh thuan":     Central,
	"binh thuan":     Central,
	"kon tum":        Central,
	"gia lai":        Central,
	"dak lak":        Central,
	"dak nong":       Central,
	"lam dong":       Central,

	// South
	"ho chi minh":      South,
	"ho chi minh city": South,
	"hcmc":             South,
	"sai gon":          South,
	"saigon":           South,
	"ba ria vung tau":  South,
	"binh duong":       South,
	"binh phuoc":       South,
	"dong nai":         South,
	"tay ninh":         South,
	"long an":          South,
	"tien giang":       South,
	"ben tre":          South,
	"tra vinh":         South,
	"vinh long":        South,
	"dong thap":        South,
	"an giang":         South,
	"kien giang":       South,
	"can tho":          South,
	"hau giang":        South,
	"soc trang":        South,
	"bac lieu":         South,
	"ca mau":           South,
}

// Classify returns the canonical bucket for a free-text province name.
// Matching is case and diacritic insensitive on the normalized name;
// anything outside the table lands in Other
func Classify(state string) string {
	if r, ok := table[normalize(state)]; ok {
		return r
	}
	return Other
}

// Provinces returns the known province names for a canonical region
// in their normalized lowercase form
func Provinces(region string) []string {
	var out []string
	for name, r := range table {
		if r == region {
			out = append(out, name)
		}
	}
	return out
}

// pool of fresh transformer chains, the table keys are plain ASCII so
// accented input is folded before lookup
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			norm.NFC,
		)
	},
}

func normalize(s string) string {
	tr := chainPool.Get().(transform.Transformer)
	folded, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		folded = strings.ToLower(s)
	}

	// Vietnamese d-with-stroke survives mark stripping
	folded = strings.ReplaceAll(folded, "đ", "d")
	folded = strings.ReplaceAll(folded, "-", " ")
	return strings.Join(strings.Fields(folded), " ")
}
