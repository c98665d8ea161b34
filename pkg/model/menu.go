package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	FoodMenuID = "food_menu"
	WineMenuID = "wine_menu"

	FoodMenuLabel = "Food Menu"
	WineMenuLabel = "Wine Menu"

	menuItemPrefix = "Menu Item "

	PDFMimeType = "application/pdf"
)

var ErrUnknownMenuCategory = errors.New("unknown menu category")

type menuKind int

const (
	kindFood menuKind = iota + 1
	kindWine
	kindItem
)

// MenuCategory groups menu documents. Exactly one of the food menu, the wine
// menu or a numbered menu item.
type MenuCategory struct {
	kind menuKind
	item int
}

var (
	FoodMenu = MenuCategory{kind: kindFood}
	WineMenu = MenuCategory{kind: kindWine}
)

func NumberedItem(n int) MenuCategory {
	return MenuCategory{kind: kindItem, item: n}
}

// ParseMenuCategory maps a route identifier ("food_menu", "wine_menu" or a
// positive integer) to its category.
func ParseMenuCategory(identifier string) (MenuCategory, error) {
	id := strings.TrimSpace(identifier)
	switch id {
	case FoodMenuID:
		return FoodMenu, nil
	case WineMenuID:
		return WineMenu, nil
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		return MenuCategory{}, fmt.Errorf("%w: %q", ErrUnknownMenuCategory, identifier)
	}
	return NumberedItem(n), nil
}

// ParseMenuCategoryLabel is the inverse of Label.
func ParseMenuCategoryLabel(label string) (MenuCategory, error) {
	l := strings.TrimSpace(label)
	switch l {
	case FoodMenuLabel:
		return FoodMenu, nil
	case WineMenuLabel:
		return WineMenu, nil
	}
	if rest, ok := strings.CutPrefix(l, menuItemPrefix); ok {
		if n, err := strconv.Atoi(rest); err == nil && n > 0 {
			return NumberedItem(n), nil
		}
	}
	return MenuCategory{}, fmt.Errorf("%w: %q", ErrUnknownMenuCategory, label)
}

func (c MenuCategory) Label() string {
	switch c.kind {
	case kindFood:
		return FoodMenuLabel
	case kindWine:
		return WineMenuLabel
	case kindItem:
		return menuItemPrefix + strconv.Itoa(c.item)
	}
	return ""
}

func (c MenuCategory) Identifier() string {
	switch c.kind {
	case kindFood:
		return FoodMenuID
	case kindWine:
		return WineMenuID
	case kindItem:
		return strconv.Itoa(c.item)
	}
	return ""
}

// Item returns the menu item number, or 0 for the food and wine menus.
func (c MenuCategory) Item() int {
	return c.item
}

func (c MenuCategory) IsZero() bool {
	return c.kind == 0
}

func (c MenuCategory) String() string {
	return c.Label()
}

// MenuDocument is one uploaded PDF. MenuTitle holds the category label.
type MenuDocument struct {
	ID        string    `json:"_id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	MenuTitle string    `json:"menuTitle" bson:"menu_title"`
	Filename  string    `json:"filename" bson:"filename"`
	FileSize  int64     `json:"fileSize" bson:"file_size"`
	MimeType  string    `json:"mimeType" bson:"mime_type"`
	IsActive  bool      `json:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// PDFFile is the attachment shape embedded in menu listings.
type PDFFile struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	UploadDate   time.Time `json:"uploadDate"`
}

func (d *MenuDocument) File() *PDFFile {
	return &PDFFile{
		ID:           d.ID,
		Filename:     d.Filename,
		OriginalName: d.Title,
		MimeType:     d.MimeType,
		Size:         d.FileSize,
		UploadDate:   d.CreatedAt,
	}
}

// MenuItem is an entry of the public menu listing. ID is either a number or a
// menu identifier string.
type MenuItem struct {
	ID          any      `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       any      `json:"price"`
	Description string   `json:"description"`
	Available   bool     `json:"available"`
	MenuTitle   string   `json:"menuTitle,omitempty"`
	PDFFile     *PDFFile `json:"pdfFile"`
}
