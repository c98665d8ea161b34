package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"laurent/internal/events"
	menuserrors "laurent/internal/menus/errors"
	"laurent/internal/menus/repository"
	"laurent/internal/menus/storage"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/model"
)

const (
	MsgNoFile            = "No PDF file uploaded"
	MsgMenuPDFNotFound   = "PDF not found for this menu item"
	MsgFileNotOnServer   = "PDF file not found on server"
	MsgMenuTitleRequired = "menuTitle is required"
	MsgMenuTitleQuery    = "menuTitle query parameter is required"
)

// FileStore is the blob side of a menu document.
type FileStore interface {
	Save(reader io.Reader, maxSize int64) (storage.StoredFile, error)
	Open(filename string) (*os.File, error)
	Remove(filename string) error
}

type MenuService interface {
	Upload(ctx context.Context, identifier, originalName string, reader io.Reader) (*model.MenuDocument, error)
	ListByCategory(ctx context.Context, menuTitle string) ([]*model.MenuDocument, error)
	GetActive(ctx context.Context, identifier string) (*model.MenuDocument, error)
	// OpenActive returns the active document with its file. The caller closes
	// the file.
	OpenActive(ctx context.Context, identifier string) (*model.MenuDocument, *os.File, error)
	SetActive(ctx context.Context, id, menuTitle string) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteActive(ctx context.Context, identifier string) error
	Catalog(ctx context.Context) []model.MenuItem
}

type menuService struct {
	repo      repository.MenuRepository
	files     FileStore
	txManager mongotx.TransactionManager
	events    events.Publisher
	cfg       *config.Config
}

func NewMenuService(
	repo repository.MenuRepository,
	files FileStore,
	txManager mongotx.TransactionManager,
	publisher events.Publisher,
	cfg *config.Config,
) MenuService {
	return &menuService{
		repo:      repo,
		files:     files,
		txManager: txManager,
		events:    publisher,
		cfg:       cfg,
	}
}

// Upload stores the file and records it as an active document. Existing
// active documents in the category stay active unless exclusive uploads are
// configured.
func (s *menuService) Upload(ctx context.Context, identifier, originalName string, reader io.Reader) (*model.MenuDocument, error) {
	category, err := parseCategory(identifier)
	if err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, apperrors.InvalidInput(MsgNoFile)
	}

	stored, err := s.files.Save(reader, s.cfg.MaxUploadSize)
	if err != nil {
		switch {
		case errors.Is(err, menuserrors.ErrInvalidMIME):
			return nil, apperrors.InvalidInput("Only PDF files are allowed")
		case errors.Is(err, menuserrors.ErrFileTooLarge):
			return nil, apperrors.TooLarge("File too large")
		}
		s.cfg.Log.Error("Failed to store uploaded PDF", "menu_title", category.Label(), "error", err)
		return nil, apperrors.Storage("Failed to store PDF", err)
	}

	doc := &model.MenuDocument{
		Title:     strings.TrimSpace(originalName),
		MenuTitle: category.Label(),
		Filename:  stored.Filename,
		FileSize:  stored.Size,
		MimeType:  stored.MimeType,
		IsActive:  true,
	}
	if doc.Title == "" {
		doc.Title = stored.Filename
	}

	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if s.cfg.MenuExclusiveUpload {
			if _, err := s.repo.DeactivateOthers(txCtx, doc.MenuTitle, ""); err != nil {
				return err
			}
		}
		return s.repo.Create(txCtx, doc)
	})
	if err != nil {
		if removeErr := s.files.Remove(stored.Filename); removeErr != nil {
			s.cfg.Log.Warn("Failed to remove orphaned upload", "filename", stored.Filename, "error", removeErr)
		}
		s.cfg.Log.Error("Failed to store PDF metadata", "menu_title", doc.MenuTitle, "error", err)
		return nil, apperrors.Storage("Failed to store PDF metadata", err)
	}

	s.cfg.Log.Info("Menu PDF uploaded",
		"id", doc.ID,
		"menu_title", doc.MenuTitle,
		"size", doc.FileSize,
		"exclusive", s.cfg.MenuExclusiveUpload,
	)
	s.events.MenuDocumentActivated(ctx, doc)
	return doc, nil
}

func (s *menuService) ListByCategory(ctx context.Context, menuTitle string) ([]*model.MenuDocument, error) {
	menuTitle = strings.TrimSpace(menuTitle)
	if menuTitle == "" {
		return nil, apperrors.InvalidInput(MsgMenuTitleQuery)
	}

	docs, err := s.repo.FindByMenuTitle(ctx, menuTitle)
	if err != nil {
		s.cfg.Log.Error("Failed to list menu PDFs", "menu_title", menuTitle, "error", err)
		return nil, apperrors.Storage("Failed to fetch menu PDFs", err)
	}
	return docs, nil
}

func (s *menuService) GetActive(ctx context.Context, identifier string) (*model.MenuDocument, error) {
	category, err := parseCategory(identifier)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.FindActive(ctx, category.Label())
	if err != nil {
		if errors.Is(err, menuserrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, MsgMenuPDFNotFound, http.StatusNotFound)
		}
		s.cfg.Log.Error("Failed to find active menu PDF", "menu_title", category.Label(), "error", err)
		return nil, apperrors.Storage("Failed to serve PDF", err)
	}
	return doc, nil
}

func (s *menuService) OpenActive(ctx context.Context, identifier string) (*model.MenuDocument, *os.File, error) {
	doc, err := s.GetActive(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.files.Open(doc.Filename)
	if err != nil {
		if errors.Is(err, menuserrors.ErrFileMissing) {
			s.cfg.Log.Warn("Active menu PDF missing on disk", "id", doc.ID, "filename", doc.Filename)
			return nil, nil, apperrors.New(apperrors.CodeNotFound, MsgFileNotOnServer, http.StatusNotFound)
		}
		return nil, nil, apperrors.Storage("Failed to serve PDF", err)
	}
	return doc, file, nil
}

// SetActive makes id the only active document of menuTitle.
func (s *menuService) SetActive(ctx context.Context, id, menuTitle string) error {
	menuTitle = strings.TrimSpace(menuTitle)
	if menuTitle == "" {
		return apperrors.InvalidInput(MsgMenuTitleRequired)
	}

	doc, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.MenuTitle != menuTitle {
		return apperrors.Validation("menuTitle does not match the PDF's menu", map[string]any{
			"menuTitle": doc.MenuTitle,
		})
	}

	var deactivated int64
	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		var err error
		deactivated, err = s.repo.DeactivateOthers(txCtx, menuTitle, doc.ID)
		if err != nil {
			return err
		}
		return s.repo.SetActive(txCtx, doc.ID, true)
	})
	if err != nil {
		return s.mapLookupError(id, "Failed to set PDF as active", err)
	}

	doc.IsActive = true
	s.cfg.Log.Info("Menu PDF set active", "id", doc.ID, "menu_title", menuTitle, "deactivated", deactivated)
	s.events.MenuDocumentActivated(ctx, doc)
	return nil
}

func (s *menuService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return s.mapLookupError(id, "Failed to deactivate PDF", err)
	}

	s.cfg.Log.Info("Menu PDF deactivated", "id", id)
	return nil
}

func (s *menuService) Delete(ctx context.Context, id string) error {
	doc, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, doc)
}

func (s *menuService) DeleteActive(ctx context.Context, identifier string) error {
	doc, err := s.GetActive(ctx, identifier)
	if err != nil {
		return err
	}
	return s.delete(ctx, doc)
}

// Catalog never fails; without storage it lists the dishes with no PDFs.
func (s *menuService) Catalog(ctx context.Context) []model.MenuItem {
	active, err := s.repo.FindAllActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load active menu PDFs, serving bare menu", "error", err)
		return baselineMenuItems()
	}
	return buildCatalog(active)
}

// --- Helpers ---

func (s *menuService) delete(ctx context.Context, doc *model.MenuDocument) error {
	if err := s.files.Remove(doc.Filename); err != nil {
		s.cfg.Log.Error("Failed to remove menu PDF file", "id", doc.ID, "filename", doc.Filename, "error", err)
		return apperrors.Storage("Failed to delete PDF", err)
	}
	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return s.mapLookupError(doc.ID, "Failed to delete PDF", err)
	}

	s.cfg.Log.Info("Menu PDF deleted", "id", doc.ID, "menu_title", doc.MenuTitle)
	s.events.MenuDocumentDeleted(ctx, doc)
	return nil
}

func (s *menuService) findByID(ctx context.Context, id string) (*model.MenuDocument, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("PDF ID cannot be empty")
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, "Failed to find PDF", err)
	}
	return doc, nil
}

func (s *menuService) mapLookupError(id, message string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, menuserrors.ErrNotFound) || errors.Is(err, menuserrors.ErrInvalidID) {
		return apperrors.NotFound("PDF")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Storage(message, err)
}

func parseCategory(identifier string) (model.MenuCategory, error) {
	category, err := model.ParseMenuCategory(identifier)
	if err != nil {
		return model.MenuCategory{}, apperrors.InvalidInput("Unknown menu item: " + strings.TrimSpace(identifier))
	}
	return category, nil
}
