package parser

import (
	"strings"
	"testing"

	"github.com/CataldiDonato/catalogo-autos/internal/model"
)

func TestParseVehicleWithPriceAndYear(t *testing.T) {
	p := Parse("Ford Ranger 2020, $25000, 4x4 diesel")

	if p.Category != model.CategoryVehicle {
		t.Fatalf("expected VEHICLE, got %s", p.Category)
	}
	if p.Price != 25000 {
		t.Fatalf("expected price 25000, got %v", p.Price)
	}
	if p.Currency != "USD" {
		t.Fatalf("expected USD, got %s", p.Currency)
	}
	if p.Title != "Ford Ranger 2020, $25000, 4x4 diesel" {
		t.Fatalf("expected first line as title, got %q", p.Title)
	}
	if got := p.Specs["year"]; got != "2020" {
		t.Fatalf("expected year spec 2020, got %v", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := Parse("")

	if p.Title != "untitled" {
		t.Fatalf("expected untitled fallback, got %q", p.Title)
	}
	if p.Price != 0 {
		t.Fatalf("expected price 0, got %v", p.Price)
	}
	if p.Currency != "USD" {
		t.Fatalf("expected USD, got %s", p.Currency)
	}
	if p.Category != model.CategoryVehicle {
		t.Fatalf("expected VEHICLE default, got %s", p.Category)
	}
	if p.Specs == nil {
		t.Fatalf("expected non-nil specs map")
	}
}

func TestParseSpecLinesAndDescription(t *testing.T) {
	text := "Tractor John Deere 5090\nYear: 2018\nHours: 3500\nEngine: 4 cyl turbo\nVery well maintained, single owner"
	p := Parse(text)

	if p.Title != "Tractor John Deere 5090" {
		t.Fatalf("unexpected title %q", p.Title)
	}
	if p.Category != model.CategoryMachinery {
		t.Fatalf("expected MACHINERY, got %s", p.Category)
	}
	if p.Specs["year"] != "2018" {
		t.Fatalf("expected year 2018, got %v", p.Specs["year"])
	}
	if p.Specs["hours"] != "3500" {
		t.Fatalf("expected hours 3500, got %v", p.Specs["hours"])
	}
	if p.Specs["engine"] != "4 cyl turbo" {
		t.Fatalf("expected engine spec, got %v", p.Specs["engine"])
	}
	if !strings.Contains(p.Description, "Very well maintained") {
		t.Fatalf("expected free line folded into description, got %q", p.Description)
	}
	if strings.Contains(p.Description, "Hours:") {
		t.Fatalf("spec line leaked into description: %q", p.Description)
	}
}

func TestParsePriceVariants(t *testing.T) {
	cases := []struct {
		text     string
		price    float64
		currency string
	}{
		{"Soldadora Lincoln $450", 450, "USD"},
		{"Taladro usado USD 1.500", 1500, "USD"},
		{"Generador ARS 2,000,000", 2000000, "ARS"},
		{"Compresor a 1200 usd negociable", 1200, "USD"},
		{"Hidrolavadora 1500.50 usd", 1500.50, "USD"},
		{"sin precio publicado", 0, "USD"},
	}
	for _, tc := range cases {
		p := Parse(tc.text)
		if p.Price != tc.price {
			t.Fatalf("%q: expected price %v, got %v", tc.text, tc.price, p.Price)
		}
		if p.Currency != tc.currency {
			t.Fatalf("%q: expected currency %s, got %s", tc.text, tc.currency, p.Currency)
		}
	}
}

func TestParseCategoryInference(t *testing.T) {
	cases := []struct {
		text string
		want model.Category
	}{
		{"Toyota Corolla 120000 km impecable", model.CategoryVehicle},
		{"Excavadora CAT 320 lista para trabajar", model.CategoryMachinery},
		{"Taladro Bosch percutor", model.CategoryTool},
		{"algo totalmente generico", model.CategoryVehicle},
	}
	for _, tc := range cases {
		if got := Parse(tc.text).Category; got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.text, tc.want, got)
		}
	}
}

// The parser is total: any input yields a well-formed record.
func TestParseNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		":::::",
		"$",
		"$ usd ars 19,,,.50",
		strings.Repeat("x: y\n", 500),
		"ñandú 🚜 таблица",
	}
	valid := map[model.Category]bool{
		model.CategoryVehicle:   true,
		model.CategoryMachinery: true,
		model.CategoryTool:      true,
	}
	for _, in := range inputs {
		p := Parse(in)
		if !valid[p.Category] {
			t.Fatalf("%q: invalid category %s", in, p.Category)
		}
		if p.Price < 0 {
			t.Fatalf("%q: negative price %v", in, p.Price)
		}
		if p.Title == "" {
			t.Fatalf("%q: empty title", in)
		}
		if p.Specs == nil {
			t.Fatalf("%q: nil specs", in)
		}
	}
}
