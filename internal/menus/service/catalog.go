package service

import "laurent/pkg/model"

const menuTypeCategory = "Menu Type"

// baselineMenuItems is the fixed dish list shown on the public site. Each
// numbered item may carry an uploaded PDF under "Menu Item <id>".
func baselineMenuItems() []model.MenuItem {
	return []model.MenuItem{
		{ID: 1, Name: "Grilled Salmon", Category: "Main Course", Price: 28.99, Description: "Fresh Atlantic salmon with herbs", Available: true},
		{ID: 2, Name: "Caesar Salad", Category: "Appetizer", Price: 12.99, Description: "Romaine lettuce with parmesan", Available: true},
		{ID: 3, Name: "Chocolate Cake", Category: "Dessert", Price: 8.99, Description: "Rich chocolate cake with ganache", Available: false},
		{ID: 4, Name: "Pasta Carbonara", Category: "Main Course", Price: 22.99, Description: "Creamy pasta with bacon", Available: true},
	}
}

func menuTypeItem(category model.MenuCategory, description string, active map[string]*model.MenuDocument) model.MenuItem {
	item := model.MenuItem{
		ID:          category.Identifier(),
		Name:        category.Label(),
		Category:    menuTypeCategory,
		Price:       "N/A",
		Description: description,
		Available:   true,
		MenuTitle:   category.Label(),
	}
	if doc, ok := active[category.Label()]; ok {
		item.PDFFile = doc.File()
	}
	return item
}

// buildCatalog attaches the active document of each category. active must be
// ordered by precedence; the first document per category wins.
func buildCatalog(active []*model.MenuDocument) []model.MenuItem {
	byLabel := make(map[string]*model.MenuDocument, len(active))
	for _, doc := range active {
		if _, seen := byLabel[doc.MenuTitle]; !seen {
			byLabel[doc.MenuTitle] = doc
		}
	}

	items := baselineMenuItems()
	for i := range items {
		category := model.NumberedItem(items[i].ID.(int))
		if doc, ok := byLabel[category.Label()]; ok {
			items[i].PDFFile = doc.File()
		}
	}

	return append(items,
		menuTypeItem(model.FoodMenu, "Menu category for organizing food items", byLabel),
		menuTypeItem(model.WineMenu, "Menu category for organizing wine items", byLabel),
	)
}
