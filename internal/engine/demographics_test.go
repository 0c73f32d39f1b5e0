package engine

import "testing"

func TestAgeFactor(t *testing.T) {
	tests := []struct {
		name string
		age  int
		want float64
	}{
		{"infant", 0, 1.2},
		{"toddler", 4, 1.2},
		{"child at band edge", 5, 1.0},
		{"adult", 40, 1.0},
		{"band upper edge", 65, 1.0},
		{"elderly", 66, 1.3},
		{"very elderly", 90, 1.3},
		{"unknown", AgeUnknown, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeFactor(tt.age); got != tt.want {
				t.Errorf("AgeFactor(%d) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestAgeFactorBounded(t *testing.T) {
	for age := -1; age <= 120; age++ {
		f := AgeFactor(age)
		if f < factorMin || f > factorMax {
			t.Errorf("AgeFactor(%d) = %v, outside [%v, %v]", age, f, factorMin, factorMax)
		}
	}
}

func TestGenderFactorNeutral(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther, GenderUnknown} {
		if got := GenderFactor(g); got != 1.0 {
			t.Errorf("GenderFactor(%s) = %v, want 1.0", g, got)
		}
	}
}

func TestGenderSkew(t *testing.T) {
	acs := conditions[0]
	if acs.name != "Acute Coronary Syndrome" {
		t.Fatalf("unexpected first condition %q", acs.name)
	}

	if got := genderSkew(acs, GenderMale); got != 1.05 {
		t.Errorf("male skew on %s = %v, want 1.05", acs.name, got)
	}
	if got := genderSkew(acs, GenderFemale); got != 1.0 {
		t.Errorf("female skew on %s = %v, want 1.0", acs.name, got)
	}
	if got := genderSkew(acs, GenderUnknown); got != 1.0 {
		t.Errorf("unknown gender skew = %v, want 1.0", got)
	}
}

func TestClampAge(t *testing.T) {
	tests := []struct {
		age  int
		want int
	}{
		{AgeUnknown, AgeUnknown},
		{-30, 0},
		{0, 0},
		{70, 70},
		{120, 120},
		{200, 120},
	}

	for _, tt := range tests {
		if got := clampAge(tt.age); got != tt.want {
			t.Errorf("clampAge(%d) = %d, want %d", tt.age, got, tt.want)
		}
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		in     string
		want   Gender
		wantOK bool
	}{
		{"Male", GenderMale, true},
		{"Female", GenderFemale, true},
		{"Other", GenderOther, true},
		{"Unknown", GenderUnknown, true},
		{"", GenderUnknown, true},
		{"male", GenderUnknown, false},
		{"N/A", GenderUnknown, false},
	}

	for _, tt := range tests {
		got, ok := ParseGender(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseGender(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
