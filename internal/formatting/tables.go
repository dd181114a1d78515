package formatting

// categoryRule maps a category to the keywords that select it. Rules
// are checked in order and the first match wins, so the table order is
// part of the classification behavior.
type categoryRule struct {
	Category string
	Keywords []string
}

var categoryRules = []categoryRule{
	{"Food & Beverages", []string{
		"food", "snack", "drink", "beverage", "tea", "coffee", "juice", "water",
		"milk", "oil", "til", "spice", "ghee", "flour", "masala", "biscuit",
	}},
	{"Personal Care", []string{
		"soap", "shampoo", "toothpaste", "cream", "lotion", "gel", "beauty",
		"face wash", "body wash", "deodorant", "sanitizer",
	}},
	{"Household", []string{
		"detergent", "cleaner", "dishwash", "dish wash", "dish soap", "washing", "toilet",
		"kitchen", "floor cleaner", "disinfectant", "dish bar", "dish-bar", "utensil",
	}},
	{"Health", []string{
		"medicine", "tablet", "capsule", "syrup", "vitamin", "supplement", "bandage",
		"antiseptic", "pain relief",
	}},
	{"Baby Care", []string{
		"baby", "infant", "diaper", "formula", "powder", "wipes", "baby food",
	}},
	{"Electronics", []string{
		"battery", "charger", "cable", "phone", "electronic", "bulb", "light",
	}},
}

// subcategoryRule pairs a keyword with the subcategory it implies.
// Ordered so that first match wins deterministically.
type subcategoryRule struct {
	Keyword     string
	Subcategory string
}

var subcategoryRules = []subcategoryRule{
	{"soap", "Bath Soap"},
	{"dishwash", "Dishwashing"},
	{"dish wash", "Dishwashing"},
	{"dish bar", "Dishwashing"},
	{"dish-bar", "Dishwashing"},
	{"dishwasher", "Dishwashing"},
	{"dish soap", "Dishwashing"},
	{"utensil", "Dishwashing"},
	{"detergent", "Laundry"},
	{"laundry", "Laundry"},
	{"washing powder", "Laundry"},
	{"fabric", "Laundry"},
	{"shampoo", "Hair Care"},
	{"hair", "Hair Care"},
	{"toothpaste", "Oral Care"},
	{"tooth", "Oral Care"},
	{"snack", "Snacks"},
	{"biscuit", "Biscuits"},
	{"cookie", "Biscuits"},
	{"oil", "Cooking Oil"},
	{"til", "Cooking Oil"},
	{"ghani", "Cooking Oil"},
	{"floor", "Floor Cleaning"},
	{"toilet", "Toilet Cleaning"},
	{"surface", "Surface Cleaning"},
}
