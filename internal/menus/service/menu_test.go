package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	menuserrors "laurent/internal/menus/errors"
	"laurent/internal/menus/storage"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/logger"
	"laurent/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMenuRepository struct {
	mu      sync.Mutex
	docs    map[string]*model.MenuDocument
	nextID  int
	clock   time.Time
	findErr error
}

func newMemoryMenuRepository() *memoryMenuRepository {
	return &memoryMenuRepository{
		docs:  map[string]*model.MenuDocument{},
		clock: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick keeps timestamps strictly increasing so ordering is deterministic.
func (r *memoryMenuRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memoryMenuRepository) Create(_ context.Context, doc *model.MenuDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	doc.ID = fmt.Sprintf("%024x", r.nextID)
	doc.CreatedAt = r.tick()
	doc.UpdatedAt = doc.CreatedAt
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *memoryMenuRepository) FindByID(_ context.Context, id string) (*model.MenuDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, menuserrors.ErrNotFound
	}
	found := *doc
	return &found, nil
}

func (r *memoryMenuRepository) FindByMenuTitle(_ context.Context, menuTitle string) ([]*model.MenuDocument, error) {
	return r.filter(func(d *model.MenuDocument) bool { return d.MenuTitle == menuTitle }, func(a, b *model.MenuDocument) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (r *memoryMenuRepository) FindActive(_ context.Context, menuTitle string) (*model.MenuDocument, error) {
	docs := r.filter(func(d *model.MenuDocument) bool { return d.MenuTitle == menuTitle && d.IsActive }, newerFirst)
	if len(docs) == 0 {
		return nil, menuserrors.ErrNotFound
	}
	return docs[0], nil
}

func (r *memoryMenuRepository) FindAllActive(_ context.Context) ([]*model.MenuDocument, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.filter(func(d *model.MenuDocument) bool { return d.IsActive }, newerFirst), nil
}

func (r *memoryMenuRepository) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return menuserrors.ErrNotFound
	}
	doc.IsActive = active
	doc.UpdatedAt = r.tick()
	return nil
}

func (r *memoryMenuRepository) DeactivateOthers(_ context.Context, menuTitle string, exceptID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := r.tick()
	for id, doc := range r.docs {
		if doc.MenuTitle == menuTitle && doc.IsActive && id != exceptID {
			doc.IsActive = false
			doc.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *memoryMenuRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return menuserrors.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *memoryMenuRepository) filter(keep func(*model.MenuDocument) bool, less func(a, b *model.MenuDocument) bool) []*model.MenuDocument {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.MenuDocument
	for _, doc := range r.docs {
		if keep(doc) {
			found := *doc
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *memoryMenuRepository) active(menuTitle string) []string {
	docs := r.filter(func(d *model.MenuDocument) bool { return d.MenuTitle == menuTitle && d.IsActive }, newerFirst)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids
}

func newerFirst(a, b *model.MenuDocument) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

type recordingPublisher struct {
	mu        sync.Mutex
	activated []string
	deleted   []string
}

func (p *recordingPublisher) BookingCreated(context.Context, *model.Booking) {}

func (p *recordingPublisher) MenuDocumentActivated(_ context.Context, doc *model.MenuDocument) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activated = append(p.activated, doc.ID)
}

func (p *recordingPublisher) MenuDocumentDeleted(_ context.Context, doc *model.MenuDocument) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, doc.ID)
}

type fixture struct {
	repo    *memoryMenuRepository
	files   *storage.FileStore
	events  *recordingPublisher
	service MenuService
}

func newFixture(t *testing.T, exclusive bool) *fixture {
	t.Helper()

	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Log:                 logger.Discard(),
		MaxUploadSize:       1 << 20,
		MenuExclusiveUpload: exclusive,
	}
	f := &fixture{
		repo:   newMemoryMenuRepository(),
		files:  files,
		events: &recordingPublisher{},
	}
	f.service = NewMenuService(f.repo, f.files, mongotx.NewDirectManager(), f.events, cfg)
	return f
}

func pdf(body string) io.Reader {
	return bytes.NewReader([]byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n" + body))
}

func (f *fixture) upload(t *testing.T, identifier, name string) *model.MenuDocument {
	t.Helper()
	doc, err := f.service.Upload(context.Background(), identifier, name, pdf(name))
	require.NoError(t, err)
	return doc
}

func TestUpload_StoresActiveDocument(t *testing.T) {
	f := newFixture(t, false)

	doc := f.upload(t, "food_menu", "dinner.pdf")

	assert.Equal(t, "Food Menu", doc.MenuTitle)
	assert.Equal(t, "dinner.pdf", doc.Title)
	assert.True(t, doc.IsActive)
	assert.Equal(t, model.PDFMimeType, doc.MimeType)
	_, err := os.Stat(f.files.Path(doc.Filename))
	assert.NoError(t, err)
	assert.Equal(t, []string{doc.ID}, f.events.activated)
}

func TestUpload_KeepsSiblingsActiveByDefault(t *testing.T) {
	f := newFixture(t, false)

	first := f.upload(t, "wine_menu", "v1.pdf")
	second := f.upload(t, "wine_menu", "v2.pdf")

	assert.ElementsMatch(t, []string{first.ID, second.ID}, f.repo.active("Wine Menu"))

	active, err := f.service.GetActive(context.Background(), "wine_menu")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID, "newest active document wins")
}

func TestUpload_ExclusiveDeactivatesSiblings(t *testing.T) {
	f := newFixture(t, true)

	f.upload(t, "wine_menu", "v1.pdf")
	second := f.upload(t, "wine_menu", "v2.pdf")

	assert.Equal(t, []string{second.ID}, f.repo.active("Wine Menu"))
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.service.Upload(context.Background(), "food_menu", "notes.txt", bytes.NewReader([]byte("plain text")))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "got %v", err)

	entries, readErr := os.ReadDir(f.files.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestUpload_UnknownCategory(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.service.Upload(context.Background(), "dessert_menu", "x.pdf", pdf("x"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "got %v", err)
}

func TestSetActive_LeavesSingleActive(t *testing.T) {
	f := newFixture(t, false)

	first := f.upload(t, "2", "a.pdf")
	f.upload(t, "2", "b.pdf")
	f.upload(t, "2", "c.pdf")
	other := f.upload(t, "food_menu", "food.pdf")

	require.NoError(t, f.service.SetActive(context.Background(), first.ID, "Menu Item 2"))

	assert.Equal(t, []string{first.ID}, f.repo.active("Menu Item 2"))
	assert.Equal(t, []string{other.ID}, f.repo.active("Food Menu"), "other categories untouched")

	active, err := f.service.GetActive(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
}

func TestSetActive_RequiresMatchingMenuTitle(t *testing.T) {
	f := newFixture(t, false)
	doc := f.upload(t, "food_menu", "food.pdf")

	err := f.service.SetActive(context.Background(), doc.ID, "")
	assert.Equal(t, MsgMenuTitleRequired, apperrors.AsAppError(err).Message)

	err = f.service.SetActive(context.Background(), doc.ID, "Wine Menu")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
}

func TestSetActive_NotFound(t *testing.T) {
	f := newFixture(t, false)

	err := f.service.SetActive(context.Background(), "missing", "Food Menu")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "got %v", err)
}

func TestDeactivate(t *testing.T) {
	f := newFixture(t, false)
	doc := f.upload(t, "food_menu", "food.pdf")

	require.NoError(t, f.service.Deactivate(context.Background(), doc.ID))

	_, err := f.service.GetActive(context.Background(), "food_menu")
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Equal(t, MsgMenuPDFNotFound, appErr.Message)
}

func TestDelete_RemovesFileAndRecord(t *testing.T) {
	f := newFixture(t, false)
	doc := f.upload(t, "1", "salmon.pdf")

	require.NoError(t, f.service.Delete(context.Background(), doc.ID))

	_, err := os.Stat(f.files.Path(doc.Filename))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = f.repo.FindByID(context.Background(), doc.ID)
	assert.ErrorIs(t, err, menuserrors.ErrNotFound)
	assert.Equal(t, []string{doc.ID}, f.events.deleted)

	err = f.service.Delete(context.Background(), doc.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "got %v", err)
}

func TestDeleteActive_FallsBackToOlderActive(t *testing.T) {
	f := newFixture(t, false)
	older := f.upload(t, "food_menu", "old.pdf")
	f.upload(t, "food_menu", "new.pdf")

	require.NoError(t, f.service.DeleteActive(context.Background(), "food_menu"))

	active, err := f.service.GetActive(context.Background(), "food_menu")
	require.NoError(t, err)
	assert.Equal(t, older.ID, active.ID)
}

func TestOpenActive_MissingFile(t *testing.T) {
	f := newFixture(t, false)
	doc := f.upload(t, "food_menu", "food.pdf")
	require.NoError(t, os.Remove(f.files.Path(doc.Filename)))

	_, _, err := f.service.OpenActive(context.Background(), "food_menu")
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Equal(t, MsgFileNotOnServer, appErr.Message)
}

func TestOpenActive_ReturnsContent(t *testing.T) {
	f := newFixture(t, false)
	f.upload(t, "wine_menu", "wine.pdf")

	doc, file, err := f.service.OpenActive(context.Background(), "wine_menu")
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "wine.pdf", doc.Title)
	assert.True(t, bytes.HasSuffix(content, []byte("wine.pdf")))
}

func TestListByCategory_RequiresMenuTitle(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.service.ListByCategory(context.Background(), " ")
	assert.Equal(t, MsgMenuTitleQuery, apperrors.AsAppError(err).Message)
}

func TestListByCategory_NewestFirst(t *testing.T) {
	f := newFixture(t, false)
	first := f.upload(t, "food_menu", "a.pdf")
	second := f.upload(t, "food_menu", "b.pdf")
	f.upload(t, "wine_menu", "w.pdf")

	docs, err := f.service.ListByCategory(context.Background(), "Food Menu")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, second.ID, docs[0].ID)
	assert.Equal(t, first.ID, docs[1].ID)
}

func TestCatalog_AttachesActiveDocuments(t *testing.T) {
	f := newFixture(t, false)
	salmon := f.upload(t, "1", "salmon.pdf")
	wine := f.upload(t, "wine_menu", "wine.pdf")

	items := f.service.Catalog(context.Background())
	require.Len(t, items, 6)

	assert.Equal(t, 1, items[0].ID)
	require.NotNil(t, items[0].PDFFile)
	assert.Equal(t, salmon.ID, items[0].PDFFile.ID)
	assert.Nil(t, items[1].PDFFile)
	assert.False(t, items[2].Available)

	food, wineItem := items[4], items[5]
	assert.Equal(t, "food_menu", food.ID)
	assert.Equal(t, "N/A", food.Price)
	assert.Equal(t, "Menu Type", food.Category)
	assert.Nil(t, food.PDFFile)
	assert.Equal(t, "Wine Menu", wineItem.MenuTitle)
	require.NotNil(t, wineItem.PDFFile)
	assert.Equal(t, wine.ID, wineItem.PDFFile.ID)
}

func TestCatalog_StorageFailureServesBaseline(t *testing.T) {
	f := newFixture(t, false)
	f.repo.findErr = errors.New("connection refused")

	items := f.service.Catalog(context.Background())
	require.Len(t, items, 4)
	for _, item := range items {
		assert.Nil(t, item.PDFFile)
	}
}
