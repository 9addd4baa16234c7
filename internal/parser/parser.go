// Package parser turns free-text intake messages (bot/webhook) into a
// structured publication draft. It is a pure best-effort pass: every
// field degrades to a default instead of failing, so ingestion is never
// blocked by a message the heuristics cannot read.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/CataldiDonato/catalogo-autos/internal/model"
)

// Parsed is the structured result of a free-text pass. Specs values are
// plain strings; richer typing is left to whoever merges the draft.
type Parsed struct {
	Title       string                 `json:"title"`
	Price       float64                `json:"price"`
	Currency    string                 `json:"currency"`
	Description string                 `json:"description"`
	Category    model.Category         `json:"category"`
	Specs       map[string]interface{} `json:"specs"`
}

const DefaultCurrency = "USD"

var (
	// price next to a currency marker, marker on either side:
	// "$25000", "USD 25.000", "25000 ars"
	priceAfterMarker  = regexp.MustCompile(`(?i)(\$|\busd|u\$s|\bars)\s*([0-9][0-9.,]*)`)
	priceBeforeMarker = regexp.MustCompile(`(?i)([0-9][0-9.,]*)\s*(usd\b|u\$s|ars\b|\$)`)

	specLine = regexp.MustCompile(`^([^:]{1,40}):\s*(.+)$`)

	yearToken = regexp.MustCompile(`\b(19[5-9][0-9]|20[0-4][0-9])\b`)
)

// keyword vocabularies checked in order; first hit wins, VEHICLE is the
// fallback for ambiguous or unmatched text.
var categoryKeywords = []struct {
	category model.Category
	words    []string
}{
	{model.CategoryVehicle, []string{
		"auto", "car", "camioneta", "pickup", "pick-up", "sedan", "suv",
		"furgon", "van", "moto", "truck", "camion", "4x4", "diesel",
		"nafta", "gnc", "km",
	}},
	{model.CategoryMachinery, []string{
		"tractor", "excavadora", "excavator", "retroexcavadora", "backhoe",
		"pala", "loader", "cosechadora", "harvester", "grua", "crane",
		"bulldozer", "topadora", "maquinaria", "mixer", "compactador",
	}},
	{model.CategoryTool, []string{
		"herramienta", "tool", "taladro", "drill", "soldadora", "welder",
		"compresor", "compressor", "generador", "generator", "sierra",
		"saw", "amoladora", "grinder", "hidrolavadora",
	}},
}

// Parse extracts a publication draft from a free-text message. It never
// returns an error: missing fields come back as zero values or defaults
// (price 0, currency USD, category VEHICLE).
func Parse(text string) Parsed {
	p := Parsed{
		Currency: DefaultCurrency,
		Category: model.CategoryVehicle,
		Specs:    map[string]interface{}{},
	}

	lines := strings.Split(text, "\n")

	var descLines []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if p.Title == "" {
			p.Title = line
			continue
		}
		if m := specLine.FindStringSubmatch(line); m != nil {
			key := normalizeSpecKey(m[1])
			if key != "" {
				p.Specs[key] = strings.TrimSpace(m[2])
				continue
			}
		}
		descLines = append(descLines, line)
	}
	p.Description = strings.Join(descLines, "\n")

	p.Price, p.Currency = extractPrice(text)
	p.Category = inferCategory(text)

	if m := yearToken.FindString(text); m != "" {
		if _, ok := p.Specs["year"]; !ok {
			p.Specs["year"] = m
		}
	}

	if p.Title == "" {
		p.Title = synthesizeTitle(p)
	}
	return p
}

// extractPrice scans for the first numeric token adjacent to a currency
// marker. No marker, no price: bare numbers are too ambiguous (years,
// mileage, engine hours).
func extractPrice(text string) (float64, string) {
	if m := priceAfterMarker.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[2]); ok {
			return v, markerCurrency(m[1])
		}
	}
	if m := priceBeforeMarker.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return v, markerCurrency(m[2])
		}
	}
	return 0, DefaultCurrency
}

func markerCurrency(marker string) string {
	switch strings.ToUpper(marker) {
	case "ARS":
		return "ARS"
	default:
		// "$", "USD", "U$S"
		return "USD"
	}
}

// parseAmount reads a human-typed number, tolerating "." or "," used as
// thousands separators ("25.000", "1,250,000") as well as a decimal tail.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimRight(s, ".,")
	if s == "" {
		return 0, false
	}
	// a single separator followed by exactly 3 digits is a thousands mark
	groups := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == ',' })
	allThousands := len(groups) > 1
	for i, g := range groups {
		if i > 0 && len(g) != 3 {
			allThousands = false
			break
		}
	}
	if allThousands {
		s = strings.Join(groups, "")
	} else {
		// treat the last separator as the decimal point
		s = strings.ReplaceAll(s, ",", ".")
		if n := strings.Count(s, "."); n > 1 {
			s = strings.Replace(s, ".", "", n-1)
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func inferCategory(text string) model.Category {
	lower := strings.ToLower(text)
	for _, group := range categoryKeywords {
		for _, w := range group.words {
			if containsWord(lower, w) {
				return group.category
			}
		}
	}
	return model.CategoryVehicle
}

// containsWord matches kw on loose word boundaries so that "km" does
// not fire inside "workman".
func containsWord(text, kw string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		before := start == 0 || !isWordRune(rune(text[start-1]))
		after := end == len(text) || !isWordRune(rune(text[end]))
		if before && after {
			return true
		}
		idx = end
	}
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func normalizeSpecKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return s
}

// synthesizeTitle builds a fallback title from the category plus the
// first spec values when the text had no usable first line.
func synthesizeTitle(p Parsed) string {
	parts := []string{categoryLabel(p.Category)}
	for _, key := range []string{"brand", "marca", "model", "modelo", "year"} {
		if v, ok := p.Specs[key]; ok {
			parts = append(parts, fmt.Sprint(v))
			if len(parts) >= 3 {
				break
			}
		}
	}
	if len(parts) == 1 && len(p.Specs) == 0 {
		return "untitled"
	}
	return strings.Join(parts, " ")
}

func categoryLabel(c model.Category) string {
	switch c {
	case model.CategoryMachinery:
		return "Machinery"
	case model.CategoryTool:
		return "Tool"
	default:
		return "Vehicle"
	}
}
