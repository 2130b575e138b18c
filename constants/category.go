package constants

import (
	"strings"
)

type Category string

const (
	Groceries       Category = "Groceries"
	Restaurant      Category = "Restaurant"
	Gas             Category = "Gas"
	Pharmacy        Category = "Pharmacy"
	HomeImprovement Category = "HomeImprovement"
	Electronics     Category = "Electronics"
	DepartmentStore Category = "DepartmentStore"
	Clothing        Category = "Clothing"
	Entertainment   Category = "Entertainment"
	Other           Category = "Other"
)

var allCategories = []Category{
	Groceries,
	Restaurant,
	Gas,
	Pharmacy,
	HomeImprovement,
	Electronics,
	DepartmentStore,
	Clothing,
	Entertainment,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"grocery":          Groceries,
		"supermarket":      Groceries,
		"food":             Groceries,
		"dining":           Restaurant,
		"restaurants":      Restaurant,
		"fast food":        Restaurant,
		"fuel":             Gas,
		"gas station":      Gas,
		"petrol":           Gas,
		"drugstore":        Pharmacy,
		"drug store":       Pharmacy,
		"hardware":         HomeImprovement,
		"home improvement": HomeImprovement,
		"tech":             Electronics,
		"department":       DepartmentStore,
		"apparel":          Clothing,
		"clothes":          Clothing,
		"movies":           Entertainment,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
