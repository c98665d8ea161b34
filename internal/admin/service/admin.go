package service

import (
	"context"

	"laurent/internal/admin/repository"
	authrepo "laurent/internal/auth/repository"
	bookingrepo "laurent/internal/bookings/repository"
	customerrepo "laurent/internal/customers/repository"
	menurepo "laurent/internal/menus/repository"
	"laurent/pkg/config"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/model"
)

const MsgCleared = "All datasets cleared (except admin user)."

// FileRemover deletes stored menu files by name.
type FileRemover interface {
	Remove(filename string) error
}

// ClearResult counts what a clear removed.
type ClearResult struct {
	Bookings      int64 `json:"bookings"`
	Customers     int64 `json:"customers"`
	MenuDocuments int64 `json:"menuDocuments"`
	Files         int   `json:"files"`
	Users         int64 `json:"users"`
}

type AdminService interface {
	// Clear wipes bookings, customers, menu documents with their files and
	// every user except the admin account.
	Clear(ctx context.Context) (*ClearResult, error)
}

type adminService struct {
	repo  repository.DatasetRepository
	files FileRemover
	cfg   *config.Config
}

func NewAdminService(repo repository.DatasetRepository, files FileRemover, cfg *config.Config) AdminService {
	return &adminService{
		repo:  repo,
		files: files,
		cfg:   cfg,
	}
}

func (s *adminService) Clear(ctx context.Context) (*ClearResult, error) {
	result := &ClearResult{}

	filenames, err := s.repo.Strings(ctx, menurepo.CollectionName, "filename")
	if err != nil {
		return nil, s.storageError(err)
	}
	for _, name := range filenames {
		if err := s.files.Remove(name); err != nil {
			s.cfg.Log.Warn("Failed to remove menu file during clear", "filename", name, "error", err)
			continue
		}
		result.Files++
	}

	steps := []struct {
		collection string
		count      *int64
	}{
		{bookingrepo.CollectionName, &result.Bookings},
		{bookingrepo.LockCollectionName, nil},
		{customerrepo.CollectionName, &result.Customers},
		{menurepo.CollectionName, &result.MenuDocuments},
	}
	for _, step := range steps {
		n, err := s.repo.Clear(ctx, step.collection)
		if err != nil {
			return nil, s.storageError(err)
		}
		if step.count != nil {
			*step.count = n
		}
	}

	result.Users, err = s.repo.ClearExcept(ctx, authrepo.CollectionName, "username", model.AdminUsername)
	if err != nil {
		return nil, s.storageError(err)
	}

	s.cfg.Log.Warn("Datasets cleared",
		"bookings", result.Bookings,
		"customers", result.Customers,
		"menu_documents", result.MenuDocuments,
		"files", result.Files,
		"users", result.Users,
	)
	return result, nil
}

func (s *adminService) storageError(err error) error {
	s.cfg.Log.Error("Failed to clear datasets", "error", err)
	return apperrors.Storage("Failed to clear datasets", err)
}
