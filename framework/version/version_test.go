package version

import (
	"errors"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		input string
		want  Version
	}{
		{"0.71.0", Version{Major: 0, Minor: 71, Patch: 0}},
		{"0.71.0-dev", Version{Major: 0, Minor: 71, Patch: 0, Dev: true}},
		{"v0.80.0-dev", Version{Major: 0, Minor: 80, Patch: 0, Dev: true}},
		{"1.2.3", Version{Major: 1, Minor: 2, Patch: 3}},
		{"v10.0.12", Version{Major: 10, Minor: 0, Patch: 12}},
	}

	for _, tc := range cases {
		got, err := Parse(tc.input)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"1.2",
		"1.2.3.4",
		"1.2.x",
		"1.-2.3",
		"+1.2.3",
		"1.2.3-rc1",
		"1.2.3-dev-dev",
		"latest",
		"1..3",
	}

	for _, input := range inputs {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q): expected error, got nil", input)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q): expected *ParseError, got %T", input, err)
		}
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, s := range []string{"0.71.0", "0.80.0-dev", "12.3.4"} {
		v, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if v.String() != s {
			t.Errorf("Parse(%q).String() = %q", s, v.String())
		}
	}
}

func TestCompare_Ordering(t *testing.T) {
	// Each version orders strictly before the next.
	ordered := []string{
		"0.44.0",
		"0.55.0-dev",
		"0.55.0",
		"0.55.1-dev",
		"0.55.1",
		"0.71.0-dev",
		"0.71.0",
		"1.0.0-dev",
		"1.0.0",
	}

	for i, a := range ordered {
		for j, b := range ordered {
			va, vb := MustParse(a), MustParse(b)
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := va.Compare(vb); got != want {
				t.Errorf("Compare(%s, %s) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestCompare_Transitive(t *testing.T) {
	a := MustParse("0.59.0-dev")
	b := MustParse("0.59.0")
	c := MustParse("0.60.0-dev")

	if !a.Less(b) || !b.Less(c) || !a.Less(c) {
		t.Errorf("expected %s < %s < %s", a, b, c)
	}
}

func TestAtLeast(t *testing.T) {
	v := MustParse("0.80.0-dev")

	if !v.AtLeast(MustParse("0.79.0")) {
		t.Error("0.80.0-dev should be at least 0.79.0")
	}
	if !v.AtLeast(MustParse("0.80.0-dev")) {
		t.Error("0.80.0-dev should be at least itself")
	}
	if v.AtLeast(MustParse("0.80.0")) {
		t.Error("0.80.0-dev should not be at least 0.80.0")
	}
}

func TestRange_Contains(t *testing.T) {
	a := MustParse("0.45.0")
	b := MustParse("0.52.0")
	c := MustParse("0.59.0")

	r := BetweenInclusive(a, c)

	if !r.Contains(b) {
		t.Errorf("range [%s, %s] should contain %s", a, c, b)
	}
	if !r.Contains(a) || !r.Contains(c) {
		t.Errorf("inclusive range [%s, %s] should contain its endpoints", a, c)
	}
	if r.Contains(MustParse("0.44.9")) {
		t.Error("range should not contain version below lower bound")
	}
	if r.Contains(MustParse("0.59.1-dev")) {
		t.Error("range should not contain version above upper bound")
	}
}

func TestRange_ExclusiveBounds(t *testing.T) {
	r := Range{
		Min: &Bound{Version: MustParse("0.45.0"), Inclusive: false},
		Max: &Bound{Version: MustParse("0.59.0"), Inclusive: false},
	}

	if r.Contains(MustParse("0.45.0")) {
		t.Error("exclusive lower bound should not contain its endpoint")
	}
	if r.Contains(MustParse("0.59.0")) {
		t.Error("exclusive upper bound should not contain its endpoint")
	}
	if !r.Contains(MustParse("0.45.1")) {
		t.Error("range should contain interior version")
	}
	// The -dev prerelease of the exclusive upper bound is still inside.
	if !r.Contains(MustParse("0.59.0-dev")) {
		t.Error("range should contain prerelease of exclusive upper bound")
	}
}

func TestRange_Unbounded(t *testing.T) {
	var r Range
	for _, s := range []string{"0.0.0-dev", "0.44.0", "99.99.99"} {
		if !r.Contains(MustParse(s)) {
			t.Errorf("unbounded range should contain %s", s)
		}
	}

	atLeast := AtLeastRange(MustParse("0.66.0-dev"))
	if !atLeast.Contains(MustParse("0.66.0")) {
		t.Error("at-least range should contain later release")
	}
	if atLeast.Contains(MustParse("0.65.9")) {
		t.Error("at-least range should not contain earlier version")
	}

	below := BelowRange(MustParse("0.66.0-dev"))
	if !below.Contains(MustParse("0.65.9")) {
		t.Error("below range should contain earlier version")
	}
	if below.Contains(MustParse("0.66.0-dev")) {
		t.Error("below range should not contain its exclusive bound")
	}
}
