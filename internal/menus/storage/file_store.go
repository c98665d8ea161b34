package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	menuserrors "laurent/internal/menus/errors"
	"laurent/pkg/model"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const sniffLen = 3072

// StoredFile describes a file written by Save.
type StoredFile struct {
	Filename string
	Size     int64
	MimeType string
}

// FileStore keeps uploaded menu PDFs in a local directory under generated
// names. Stored names never contain path separators.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Save sniffs the content, rejects anything that is not a PDF and writes at
// most maxSize bytes. A rejected upload leaves nothing on disk.
func (s *FileStore) Save(reader io.Reader, maxSize int64) (StoredFile, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return StoredFile{}, fmt.Errorf("read header: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !detected.Is(model.PDFMimeType) {
		return StoredFile{}, fmt.Errorf("%w: %s", menuserrors.ErrInvalidMIME, detected.String())
	}
	if maxSize > 0 && int64(n) > maxSize {
		return StoredFile{}, menuserrors.ErrFileTooLarge
	}

	filename := uuid.New().String() + detected.Extension()
	fullPath := s.Path(filename)
	out, err := os.Create(fullPath)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create %s: %w", fullPath, err)
	}

	written, err := s.write(out, head, reader, maxSize)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close %s: %w", fullPath, closeErr)
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return StoredFile{}, err
	}

	return StoredFile{
		Filename: filename,
		Size:     written,
		MimeType: model.PDFMimeType,
	}, nil
}

func (s *FileStore) write(out io.Writer, head []byte, reader io.Reader, maxSize int64) (int64, error) {
	if _, err := out.Write(head); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	body := reader
	if maxSize > 0 {
		// One extra byte tells an exact fit from an overflow.
		body = io.LimitReader(reader, maxSize-int64(len(head))+1)
	}
	copied, err := io.Copy(out, body)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}

	written := int64(len(head)) + copied
	if maxSize > 0 && written > maxSize {
		return 0, menuserrors.ErrFileTooLarge
	}
	return written, nil
}

// Open returns ErrFileMissing when the file is gone.
func (s *FileStore) Open(filename string) (*os.File, error) {
	f, err := os.Open(s.Path(filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, menuserrors.ErrFileMissing
		}
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	return f, nil
}

// Remove deletes the file. A file that is already gone is not an error.
func (s *FileStore) Remove(filename string) error {
	if err := os.Remove(s.Path(filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	return nil
}
