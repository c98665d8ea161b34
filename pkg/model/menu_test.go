package model

import (
	"errors"
	"testing"
)

func TestParseMenuCategory(t *testing.T) {
	tests := []struct {
		identifier string
		wantLabel  string
		wantErr    bool
	}{
		{identifier: "food_menu", wantLabel: "Food Menu"},
		{identifier: "wine_menu", wantLabel: "Wine Menu"},
		{identifier: "3", wantLabel: "Menu Item 3"},
		{identifier: " 12 ", wantLabel: "Menu Item 12"},
		{identifier: "0", wantErr: true},
		{identifier: "-1", wantErr: true},
		{identifier: "dessert_menu", wantErr: true},
		{identifier: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			category, err := ParseMenuCategory(tt.identifier)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMenuCategory) {
					t.Fatalf("expected ErrUnknownMenuCategory, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := category.Label(); got != tt.wantLabel {
				t.Errorf("Label() = %q, want %q", got, tt.wantLabel)
			}
		})
	}
}

func TestParseMenuCategoryLabel_RoundTrip(t *testing.T) {
	for _, category := range []MenuCategory{FoodMenu, WineMenu, NumberedItem(1), NumberedItem(42)} {
		parsed, err := ParseMenuCategoryLabel(category.Label())
		if err != nil {
			t.Fatalf("ParseMenuCategoryLabel(%q) failed: %v", category.Label(), err)
		}
		if parsed != category {
			t.Errorf("round trip mismatch: got %v, want %v", parsed, category)
		}
		back, err := ParseMenuCategory(category.Identifier())
		if err != nil || back != category {
			t.Errorf("identifier round trip mismatch for %v: %v, %v", category, back, err)
		}
	}

	if _, err := ParseMenuCategoryLabel("Menu Item x"); err == nil {
		t.Error("expected error for non-numeric menu item label")
	}
	if !(MenuCategory{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
}
