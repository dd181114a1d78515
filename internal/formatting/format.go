// Package formatting builds a complete product entry from raw lookup
// data without calling any external service. It is the deterministic
// fallback when no generative provider is available, and it always
// produces a record.
package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/datacarts/barcode-enricher/internal/barcode"
	"github.com/datacarts/barcode-enricher/internal/quantity"
	"github.com/datacarts/barcode-enricher/internal/types"
)

// Format derives a product record from a raw candidate using keyword
// classification and pattern extraction only.
func Format(candidate *types.RawCandidate, code string) *types.ProductRecord {
	return format(candidate, code, time.Now())
}

func format(candidate *types.RawCandidate, code string, now time.Time) *types.ProductRecord {
	name := strings.TrimSpace(candidate.Name)
	brand := strings.TrimSpace(candidate.Brand)
	description := strings.TrimSpace(candidate.Description)

	searchText := candidate.SourceURL + " " + candidate.Snippet
	fullText := strings.ToLower(name + " " + description + " " + searchText)

	category := detectCategory(fullText)
	subcategory := detectSubcategory(fullText)

	if brand == "" {
		if words := strings.Fields(name); len(words) > 1 {
			brand = words[0]
		}
	}

	var qty float64
	var unit string
	if candidate.QuantityValue > 0 {
		qty, unit = candidate.QuantityValue, candidate.QuantityUnit
	} else if q, ok := quantity.Extract(fullText); ok {
		qty, unit = q.Value, q.Unit
	}

	name = enhanceName(name, fullText)
	description = synthesizeDescription(description, name, brand, category, fullText)

	record := &types.ProductRecord{
		Barcode:       code,
		ProductName:   name,
		Brand:         brand,
		Description:   description,
		Category:      category,
		Subcategory:   subcategory,
		ProductLine:   productLine(brand, subcategory),
		Quantity:      qty,
		Unit:          unit,
		Features:      buildFeatures(category, fullText),
		Specification: buildSpecification(brand, code, category, fullText, qty, unit),
		ProductImage:  candidate.ImageURL,
		DataSource:    dataSource(candidate.SourceName),
		Timestamp:     now.Format(time.RFC3339),
	}
	return record
}

func detectCategory(fullText string) string {
	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(fullText, keyword) {
				return rule.Category
			}
		}
	}
	return "Other"
}

func detectSubcategory(fullText string) string {
	for _, rule := range subcategoryRules {
		if strings.Contains(fullText, rule.Keyword) {
			return rule.Subcategory
		}
	}
	return ""
}

func buildFeatures(category, fullText string) []string {
	var features []string
	switch category {
	case "Personal Care":
		features = append(features, "Gentle formula", "Suitable for daily use", "Dermatologically tested")
		if strings.Contains(fullText, "soap") {
			features = append(features, "Moisturizing", "Long-lasting fragrance")
		}
	case "Household":
		features = append(features, "Effective cleaning", "Easy to use", "Value for money")
		if isDishwash(fullText) {
			features = append(features, "Cuts through grease effectively", "Gentle on hands")
			if isAntiBacterial(fullText) {
				features = append(features, "Anti-bacterial formula")
			}
			if strings.Contains(fullText, "ginger") {
				features = append(features, "Ginger twist fragrance")
			}
		}
	case "Food & Beverages":
		features = append(features, "Fresh quality", "Nutritious", "Ready to consume")
		if strings.Contains(fullText, "oil") {
			features = append(features, "Pure and natural", "Rich in nutrients")
		}
	default:
		features = append(features, "Quality product", "Trusted brand", "Good value")
	}
	return features
}

func buildSpecification(brand, code, category, fullText string, qty float64, unit string) map[string]string {
	spec := map[string]string{
		"Country of Origin": barcode.CountryOfOrigin(code),
		"Barcode Type":      barcode.TypeLabel(code),
	}
	if brand != "" {
		spec["Brand"] = brand
	} else {
		spec["Brand"] = "Unknown Brand"
	}

	if qty > 0 && unit != "" {
		amount := formatAmount(qty, unit)
		spec["Weight/Volume"] = amount
		spec["Net Quantity"] = amount
	}

	switch category {
	case "Personal Care":
		spec["Suitable For"] = "All skin types"
	case "Food & Beverages":
		spec["Storage"] = "Store in cool, dry place"
	case "Household":
		if isDishwash(fullText) {
			if strings.Contains(fullText, "round") {
				spec["Form Factor"] = "Round bar"
			}
			if strings.Contains(fullText, "ginger") {
				spec["Fragrance"] = "Ginger twist"
			}
		}
	}
	return spec
}

// enhanceName pads very short names with the product form when the
// surrounding text identifies it.
func enhanceName(name, fullText string) string {
	if len(strings.Fields(name)) > 2 {
		return name
	}

	enhanced := name
	if isAntiBacterial(fullText) && !strings.Contains(strings.ToLower(enhanced), "dish") && isDishwash(fullText) {
		enhanced += " Anti-Bacterial Dishwash Bar"
	}
	if len(strings.Fields(enhanced)) <= 2 && strings.Contains(fullText, "dishwash") {
		enhanced += " Dishwash Bar"
	}
	return enhanced
}

func synthesizeDescription(description, name, brand, category, fullText string) string {
	generic := description == "" || description == fmt.Sprintf("%s. Quality product from %s.", name, brand)
	if !generic {
		return description
	}
	if category != "Household" || !isDishwash(fullText) {
		return description
	}

	out := fmt.Sprintf("%s %s is an effective dishwashing bar that helps remove grease and food residue from dishes.", brand, name)
	if isAntiBacterial(fullText) {
		out += " With anti-bacterial properties to ensure hygienic cleaning."
	}
	if strings.Contains(fullText, "ginger") {
		out += " Features a refreshing ginger fragrance."
	}
	return out
}

func productLine(brand, subcategory string) string {
	if subcategory != "" {
		return fmt.Sprintf("%s %s Products", brand, subcategory)
	}
	return fmt.Sprintf("%s Products", brand)
}

func dataSource(source string) string {
	if source == "" {
		source = "Multiple Sources"
	}
	return "Intelligent Processing - " + source
}

func formatAmount(qty float64, unit string) string {
	if qty == float64(int64(qty)) {
		return fmt.Sprintf("%d %s", int64(qty), unit)
	}
	return fmt.Sprintf("%g %s", qty, unit)
}

func isDishwash(fullText string) bool {
	return strings.Contains(fullText, "dishwash") || strings.Contains(fullText, "dish wash") ||
		strings.Contains(fullText, "dish bar")
}

func isAntiBacterial(fullText string) bool {
	return strings.Contains(fullText, "anti-bacterial") || strings.Contains(fullText, "antibacterial")
}
