package region

import "testing"

func TestClassify_CanonicalProvinces(t *testing.T) {
	cases := map[string]string{
		"Ha Noi":         North,
		"Hai Phong":      North,
		"Da Nang":        Central,
		"Thua Thien Hue": Central,
		"Ho Chi Minh":    South,
		"Can Tho":        South,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Errorf("Classify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassify_CaseAndSpacingInsensitive(t *testing.T) {
	for _, in := range []string{"ha noi", "HA NOI", "  Ha   Noi  ", "hA nOi"} {
		if got := Classify(in); got != North {
			t.Errorf("Classify(%q) = %q, want %q", in, got, North)
		}
	}
	if got := Classify("Ba Ria - Vung Tau"); got != South {
		t.Errorf("Classify hyphenated = %q, want %q", got, South)
	}
}

func TestClassify_FoldsDiacritics(t *testing.T) {
	cases := map[string]string{
		"Hà Nội":            North,
		"Đà Nẵng":           Central,
		"Thừa Thiên Huế":    Central,
		"Hồ Chí Minh":       South,
		"Bà Rịa - Vũng Tàu": South,
		"Đồng Nai":          South,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Errorf("Classify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassify_Aliases(t *testing.T) {
	for _, in := range []string{"Saigon", "HCMC", "Ho Chi Minh City"} {
		if got := Classify(in); got != South {
			t.Errorf("Classify(%q) = %q, want %q", in, got, South)
		}
	}
	if got := Classify("Hue"); got != Central {
		t.Errorf("Classify(Hue) = %q, want %q", got, Central)
	}
}

func TestClassify_UnknownFallsToOther(t *testing.T) {
	for _, in := range []string{"", "   ", "Tokyo", "California", "District 1"} {
		if got := Classify(in); got != Other {
			t.Errorf("Classify(%q) = %q, want %q", in, got, Other)
		}
	}
}

func TestProvinces_CoverTableExactly(t *testing.T) {
	total := 0
	for _, r := range Regions() {
		ps := Provinces(r)
		if len(ps) == 0 {
			t.Fatalf("Provinces(%q) is empty", r)
		}
		for _, p := range ps {
			if got := Classify(p); got != r {
				t.Errorf("Classify(%q) = %q, want %q", p, got, r)
			}
		}
		total += len(ps)
	}
	if total != len(table) {
		t.Errorf("region lists cover %d provinces, table has %d", total, len(table))
	}
	if got := Provinces(Other); got != nil {
		t.Errorf("Provinces(Other) = %v, want nil", got)
	}
}
