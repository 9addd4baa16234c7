package service

import (
	"encoding/json"
	"testing"

	"github.com/CataldiDonato/catalogo-autos/internal/model"
	"github.com/CataldiDonato/catalogo-autos/internal/parser"
)

// JSON callers are free to send price as a number and specs as an
// object; string forms keep working.
func TestWebhookInputDecodesUntypedJSON(t *testing.T) {
	var in WebhookInput
	body := `{"title":"Tractor","price":31000,"specs":{"hours":4000},"category":"MACHINERY"}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	d := MergeManual(parser.Parse(""), in)
	if d.Price != 31000 {
		t.Fatalf("expected numeric price accepted, got %v", d.Price)
	}
	if d.Specs["hours"] != float64(4000) {
		t.Fatalf("expected specs object accepted, got %v", d.Specs)
	}
	if d.Category != model.CategoryMachinery {
		t.Fatalf("expected category MACHINERY, got %s", d.Category)
	}

	var str WebhookInput
	body = `{"price":"2500","specs":"{\"color\":\"red\"}"}`
	if err := json.Unmarshal([]byte(body), &str); err != nil {
		t.Fatalf("unmarshal string forms: %v", err)
	}
	d = MergeManual(parser.Parse(""), str)
	if d.Price != 2500 || d.Specs["color"] != "red" {
		t.Fatalf("expected string forms still accepted, got %v / %v", d.Price, d.Specs)
	}
}

func TestMergeManualTitleWins(t *testing.T) {
	parsed := parser.Parse("Tractor Massey Ferguson 290\nYear: 1995")
	in := WebhookInput{Title: "Tractor John Deere"}

	d := MergeManual(parsed, in)
	if d.Title != "Tractor John Deere" {
		t.Fatalf("expected manual title to win, got %q", d.Title)
	}
	if d.Category != model.CategoryMachinery {
		t.Fatalf("expected parsed category kept, got %s", d.Category)
	}
	if d.Specs["year"] != "1995" {
		t.Fatalf("expected parsed specs kept, got %v", d.Specs)
	}
}

func TestMergeManualFieldByField(t *testing.T) {
	parsed := parser.Parse("Ford Ranger 2020, $25000, 4x4 diesel")
	in := WebhookInput{
		Price:    "31000",
		Currency: "ARS",
	}

	d := MergeManual(parsed, in)
	if d.Price != 31000 {
		t.Fatalf("expected manual price, got %v", d.Price)
	}
	if d.Currency != "ARS" {
		t.Fatalf("expected manual currency, got %s", d.Currency)
	}
	if d.Title != "Ford Ranger 2020, $25000, 4x4 diesel" {
		t.Fatalf("expected parsed title kept, got %q", d.Title)
	}
}

func TestMergeManualBadValuesFallBack(t *testing.T) {
	parsed := parser.Parse("Ford Ranger 2020, $25000, 4x4 diesel")
	in := WebhookInput{
		Price:    "not-a-number",
		Category: "SPACESHIP",
		Specs:    "not json",
	}

	d := MergeManual(parsed, in)
	if d.Price != 25000 {
		t.Fatalf("expected parsed price kept on bad manual price, got %v", d.Price)
	}
	if d.Category != model.CategoryVehicle {
		t.Fatalf("expected parsed category kept on unknown manual category, got %s", d.Category)
	}
	if d.Specs["year"] != "2020" {
		t.Fatalf("expected parsed specs kept on bad manual specs, got %v", d.Specs)
	}
}

func TestMergeManualSpecsOverlay(t *testing.T) {
	parsed := parser.Parse("Excavadora CAT\nHours: 3500\nYear: 2012")
	in := WebhookInput{
		Category: "machinery",
		Specs:    `{"hours": "4000", "color": "yellow"}`,
	}

	d := MergeManual(parsed, in)
	if d.Category != model.CategoryMachinery {
		t.Fatalf("expected normalized manual category, got %s", d.Category)
	}
	if d.Specs["hours"] != "4000" {
		t.Fatalf("expected manual spec key to win, got %v", d.Specs["hours"])
	}
	if d.Specs["color"] != "yellow" {
		t.Fatalf("expected manual-only key added, got %v", d.Specs)
	}
	if d.Specs["year"] != "2012" {
		t.Fatalf("expected parsed-only key kept, got %v", d.Specs)
	}
}

func TestMergeManualDefaults(t *testing.T) {
	d := MergeManual(parser.Parsed{Specs: map[string]interface{}{}}, WebhookInput{})
	if d.Title != DefaultTitle {
		t.Fatalf("expected default title, got %q", d.Title)
	}
	if d.Currency != parser.DefaultCurrency {
		t.Fatalf("expected default currency, got %q", d.Currency)
	}
	if d.Price != 0 {
		t.Fatalf("expected zero price, got %v", d.Price)
	}
}
