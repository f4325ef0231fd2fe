package ingredient

import (
	"reflect"
	"testing"

	"github.com/hammamikhairi/ottomart/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []domain.ParsedIngredient
	}{
		{
			name: "pipe separated",
			text: "감자300g|당근200g",
			want: []domain.ParsedIngredient{
				{Name: "감자", Quantity: "300g"},
				{Name: "당근", Quantity: "200g"},
			},
		},
		{
			name: "bracket annotation removed",
			text: "[국산] 감자 300g",
			want: []domain.ParsedIngredient{{Name: "감자", Quantity: "300g"}},
		},
		{
			name: "paren annotation removed",
			text: "양파(중간 크기) 1개|소금 약간",
			want: []domain.ParsedIngredient{
				{Name: "양파", Quantity: "1개"},
				{Name: "소금약간"},
			},
		},
		{
			name: "empty segments dropped",
			text: "| 대파 50g ||   |",
			want: []domain.ParsedIngredient{{Name: "대파", Quantity: "50g"}},
		},
		{
			name: "internal spaces removed from name",
			text: "대파 흰 부분 30 g",
			want: []domain.ParsedIngredient{{Name: "대파흰부분", Quantity: "30 g"}},
		},
		{
			name: "no digit",
			text: "후추",
			want: []domain.ParsedIngredient{{Name: "후추"}},
		},
		{
			name: "leading digit yields empty name",
			text: "300g",
			want: []domain.ParsedIngredient{{Name: "", Quantity: "300g"}},
		},
		{
			name: "non greedy bracket keeps tail",
			text: "[a] 두부 1모 [b]|[c]",
			want: []domain.ParsedIngredient{{Name: "두부", Quantity: "1모"}},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Parse(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseIgnoresExtraWhitespace(t *testing.T) {
	a := Parse("감자300g|당근200g")
	b := Parse("  감 자 300g |   당근   200g  ")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("whitespace changed result: %#v vs %#v", a, b)
	}
	if !reflect.DeepEqual(Parse("감자300g|당근200g"), a) {
		t.Fatal("parse is not deterministic")
	}
}

func TestMagnitude(t *testing.T) {
	tests := []struct {
		q    string
		want float64
	}{
		{"300g", 300},
		{"1.5kg", 1.5},
		{"200ml 정도", 200},
		{"2개", 0},
		{"300", 0},
		{"", 0},
		{"약간", 0},
		{"1.2.3g", 0},
		{"30 g", 0},
		{"３００g", 300},
		{"１.５kg", 1.5},
		{"٢٥٠ml", 250},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			if got := Magnitude(tt.q); got != tt.want {
				t.Fatalf("Magnitude(%q) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestPricedMagnitude(t *testing.T) {
	tests := []struct {
		q      string
		want   float64
		wantOK bool
	}{
		{"100g", 100, true},
		{"2개", 2, true},
		{"0.5컵", 0.5, true},
		{"２개", 2, true},
		{"3", 0, false},
		{"약간", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got, ok := PricedMagnitude(tt.q)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("PricedMagnitude(%q) = (%v, %v), want (%v, %v)", tt.q, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFullwidthDigitsSplitAndMeasure(t *testing.T) {
	got := Parse("감자３００g|당근200g")
	want := []domain.ParsedIngredient{
		{Name: "감자", Quantity: "３００g"},
		{Name: "당근", Quantity: "200g"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %#v, want %#v", got, want)
	}
	if m := Magnitude(got[0].Quantity); m != 300 {
		t.Fatalf("Magnitude(%q) = %v, want 300", got[0].Quantity, m)
	}
}

func TestParseQuantityUnit(t *testing.T) {
	q, ok := ParseQuantity("250ml")
	if !ok || q.Magnitude != 250 || q.Unit != "ml" {
		t.Fatalf("got %+v ok=%v", q, ok)
	}
}
