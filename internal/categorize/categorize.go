// Package categorize assigns receipts and line items to the fixed category
// taxonomy by ordered keyword matching. Rules are data, not branching: the
// first rule whose keyword appears in the lowercased name wins, and no
// match means Other.
package categorize

import (
	"strings"

	"github.com/joseph-ayodele/receipt-extractor/constants"
)

type rule struct {
	category constants.Category
	keywords []string
}

// merchantRules are ordered most-specific first; e.g. gas brands before
// grocery so "Costco Gas" lands in Gas.
var merchantRules = []rule{
	{constants.Gas, []string{"shell", "chevron", "exxon", "mobil", "bp ", "texaco", "sunoco", "gas station", "fuel", "petro"}},
	{constants.Pharmacy, []string{"walgreens", "cvs", "rite aid", "pharmacy", "drug"}},
	{constants.HomeImprovement, []string{"home depot", "lowe", "menards", "ace hardware", "hardware", "true value"}},
	{constants.Electronics, []string{"best buy", "micro center", "gamestop", "radioshack", "apple store", "electronics"}},
	{constants.Restaurant, []string{"mcdonald", "burger", "wendy", "taco", "pizza", "chipotle", "subway", "starbucks", "dunkin", "kfc", "restaurant", "cafe", "diner", "grill", "bistro", "bakery"}},
	{constants.Groceries, []string{"walmart", "target", "costco", "kroger", "safeway", "aldi", "publix", "trader joe", "whole foods", "wegmans", "food lion", "grocery", "market", "supermarket", "foods"}},
	{constants.DepartmentStore, []string{"macy", "nordstrom", "kohl", "jcpenney", "sears", "dillard", "department"}},
	{constants.Clothing, []string{"old navy", "gap", "h&m", "zara", "uniqlo", "clothing", "apparel"}},
	{constants.Entertainment, []string{"amc", "cinemark", "regal", "cinema", "theater", "theatre", "bowling", "arcade"}},
}

// itemRules use product vocabulary rather than brand names.
var itemRules = []rule{
	{constants.Groceries, []string{"milk", "bread", "egg", "cheese", "butter", "yogurt", "cereal", "juice", "banana", "apple", "produce", "meat", "chicken", "beef", "rice", "pasta", "soup", "snack", "coffee", "tea", "sugar", "flour"}},
	{constants.Pharmacy, []string{"aspirin", "ibuprofen", "tylenol", "advil", "vitamin", "bandage", "medicine", "prescription", "rx "}},
	{constants.Electronics, []string{"cable", "charger", "battery", "headphone", "usb", "hdmi", "adapter", "mouse", "keyboard"}},
	{constants.HomeImprovement, []string{"screw", "nail", "hammer", "drill", "paint", "lumber", "plywood", "caulk", "tape measure"}},
	{constants.Clothing, []string{"shirt", "pants", "sock", "jacket", "shoe", "dress", "jeans", "hat"}},
	{constants.Gas, []string{"unleaded", "diesel", "premium fuel", "regular fuel"}},
}

// Merchant classifies a merchant/vendor name.
func Merchant(name string) string {
	return classify(name, merchantRules)
}

// Item classifies a line-item name.
func Item(name string) string {
	return classify(name, itemRules)
}

func classify(name string, rules []rule) string {
	lower := strings.ToLower(name)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return string(r.category)
			}
		}
	}
	return string(constants.Other)
}
