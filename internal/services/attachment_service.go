package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "github.com/filevaultapp/filevault-backend/internal/errors"
	"github.com/filevaultapp/filevault-backend/internal/models"
	"github.com/filevaultapp/filevault-backend/internal/repository"
	"github.com/filevaultapp/filevault-backend/internal/storage"
	"github.com/filevaultapp/filevault-backend/internal/validator"
)

// UploadedFile is a single file from a multipart upload request
type UploadedFile struct {
	Name    string
	Size    int64
	Mime    string
	Content io.Reader
}

// AttachmentQuery collects the listing parameters from the request
type AttachmentQuery struct {
	Page      int
	Limit     int
	PathID    *uint
	Folder    string
	Kind      string
	Search    string
	SortBy    string
	SortOrder string
}

// UpdateAttachmentRequest describes a rename and/or a move. A nil field
// means "leave unchanged".
type UpdateAttachmentRequest struct {
	Name   *string
	PathID *uint
	Folder *string
}

// AttachmentService implements the attachment lifecycle: upload, listing,
// rename/move, and deletion, together with the activity trail.
type AttachmentService struct {
	attachments repository.AttachmentRepository
	paths       repository.PathRepository
	activityLog repository.ActivityLogRepository
	store       storage.FileStorage
	recorder    *ActivityRecorder
	logger      *slog.Logger
	baseURL     string
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachments repository.AttachmentRepository,
	paths repository.PathRepository,
	activityLog repository.ActivityLogRepository,
	store storage.FileStorage,
	recorder *ActivityRecorder,
	logger *slog.Logger,
	baseURL string,
) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		paths:       paths,
		activityLog: activityLog,
		store:       store,
		recorder:    recorder,
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func invalidInput(message string) error {
	return apperrors.NewAppError(apperrors.ErrInvalidInput, message, apperrors.CodeInvalidInput)
}

func forbidden(message string) error {
	return apperrors.NewAppError(apperrors.ErrForbidden, message, apperrors.CodeForbidden)
}

// buildStorageURL turns a storage key into a public download URL
func (s *AttachmentService) buildStorageURL(key string) string {
	return s.baseURL + "/" + key
}

func (s *AttachmentService) toDTO(a *models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:         a.ID,
		Name:       a.Name,
		Kind:       a.Kind,
		Size:       a.Size,
		Mime:       a.Mime,
		StorageKey: a.StorageKey,
		StorageURL: s.buildStorageURL(a.StorageKey),
		Path:       a.Path,
		PathID:     a.PathID,
		User:       toUserSummary(&a.User),
		CreatedBy:  toUserRef(&a.CreatedBy),
		UpdatedBy:  toUserRef(&a.UpdatedBy),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (s *AttachmentService) toDirectoryDTO(d *repository.DirectoryInfo) DirectoryDTO {
	return directoryDTO(s.store, d)
}

// directoryDTO maps a directory record to its wire shape
func directoryDTO(store storage.FileStorage, d *repository.DirectoryInfo) DirectoryDTO {
	return DirectoryDTO{
		ID:        d.Path.ID,
		Name:      d.Path.Name,
		Path:      "/" + d.Path.Name,
		DiskPath:  store.DiskPath("uploads", d.Path.Name),
		ItemCount: d.ItemCount,
		CreatedBy: toUserRef(&d.Path.Owner),
		CreatedAt: d.Path.CreatedAt,
		UpdatedAt: d.Path.UpdatedAt,
	}
}

// ensurePathWithFolder finds the caller's folder record by name, creating it
// when absent. The folder.create log entry is written only on actual
// creation. A duplicate-key race with a concurrent creator resolves by
// re-reading the winner's row.
func (s *AttachmentService) ensurePathWithFolder(ctx context.Context, userID uint, folder string) (*models.Path, error) {
	name, err := validator.ValidateFolderName(folder)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	existing, err := s.paths.FindByOwnerAndName(ctx, userID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	record := &models.Path{Name: name, OwnerID: userID}
	if err := s.paths.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return s.paths.FindByOwnerAndName(ctx, userID, name)
		}
		return nil, err
	}

	// No directory is created on disk; the uploads subdirectory exists only
	// as the advisory diskPath until deletion cleanup touches it.
	s.recorder.RecordNow(ctx, models.ActionFolderCreate,
		fmt.Sprintf("created folder %q", name), userID, nil)
	return record, nil
}

// resolveUploadPath determines the target folder of an upload. At most one
// of pathID and folder may be set; neither means the root.
func (s *AttachmentService) resolveUploadPath(ctx context.Context, userID uint, pathID *uint, folder string) (*models.Path, error) {
	if pathID != nil && folder != "" {
		return nil, invalidInput("use either pathId or folder, not both")
	}

	if pathID != nil {
		record, err := s.paths.GetByID(ctx, *pathID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewAppError(apperrors.ErrPathNotFound, "path not found", apperrors.CodeNotFound)
			}
			return nil, err
		}
		if record.OwnerID != userID {
			return nil, forbidden("path belongs to another user")
		}
		return record, nil
	}

	if folder != "" {
		return s.ensurePathWithFolder(ctx, userID, folder)
	}

	return nil, nil
}

// logicalPath renders the denormalized path column for a folder record
func logicalPath(record *models.Path) string {
	if record == nil {
		return "/"
	}
	return "/" + record.Name
}

// CreateMultiple stores the uploaded files and inserts their rows in one
// batch. Files are written to storage first; if the insert fails the written
// files are removed again.
func (s *AttachmentService) CreateMultiple(ctx context.Context, userID uint, files []UploadedFile, pathID *uint, folder string) ([]AttachmentDTO, error) {
	if len(files) == 0 {
		return nil, invalidInput("no files provided")
	}
	if len(files) > storage.MaxFilesPerUpload {
		return nil, invalidInput(fmt.Sprintf("too many files: at most %d per upload", storage.MaxFilesPerUpload))
	}

	record, err := s.resolveUploadPath(ctx, userID, pathID, folder)
	if err != nil {
		return nil, err
	}

	var resolvedPathID *uint
	if record != nil {
		id := record.ID
		resolvedPathID = &id
	}
	pathColumn := logicalPath(record)

	rows := make([]models.Attachment, 0, len(files))
	keys := make([]string, 0, len(files))
	for _, f := range files {
		if err := storage.ValidateFile(f.Size); err != nil {
			s.cleanupKeys(keys)
			return nil, invalidInput(fmt.Sprintf("file %q exceeds the %d MB limit", f.Name, storage.MaxFileSize/(1024*1024)))
		}

		name := validator.SanitizeFilename(f.Name)
		key := s.store.NewKey(name)

		buf, err := io.ReadAll(f.Content)
		if err != nil {
			s.cleanupKeys(keys)
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		if err := s.store.Save(key, bytes.NewReader(buf)); err != nil {
			s.cleanupKeys(keys)
			return nil, fmt.Errorf("failed to store %q: %w", name, err)
		}
		keys = append(keys, key)

		// Re-verify the write before the row is inserted. A file that went
		// missing between staging and here is re-materialized from the
		// buffered bytes.
		if err := s.store.EnsureExists(key, buf); err != nil {
			s.cleanupKeys(keys)
			return nil, fmt.Errorf("failed to stage %q: %w", name, err)
		}

		rows = append(rows, models.Attachment{
			Name:        name,
			Kind:        KindForFilename(name),
			Size:        f.Size,
			Mime:        f.Mime,
			StorageKey:  key,
			Path:        pathColumn,
			PathID:      resolvedPathID,
			UserID:      userID,
			CreatedByID: userID,
			UpdatedByID: userID,
		})
	}

	if err := s.attachments.CreateMany(ctx, rows); err != nil {
		s.cleanupKeys(keys)
		return nil, err
	}

	created, err := s.attachments.FindByStorageKeys(ctx, userID, keys)
	if err != nil {
		return nil, err
	}

	result := make([]AttachmentDTO, 0, len(created))
	for i := range created {
		a := &created[i]
		id := a.ID
		s.recorder.Record(ctx, models.ActionAttachmentUpload,
			fmt.Sprintf("uploaded %q (%d bytes)", a.Name, a.Size), userID, &id)
		result = append(result, s.toDTO(a))
	}
	return result, nil
}

// cleanupKeys removes already-written files after a failed upload
func (s *AttachmentService) cleanupKeys(keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(key); err != nil {
			s.logger.Warn("failed to clean up stored file",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}

// buildFilter translates a query into a repository filter. An unknown folder
// name filters to the impossible path id, yielding an empty page instead of
// an error.
func (s *AttachmentService) buildFilter(ctx context.Context, q AttachmentQuery) (repository.AttachmentFilter, error) {
	filter := repository.AttachmentFilter{
		Kind:   q.Kind,
		Search: q.Search,
	}

	switch {
	case q.PathID != nil:
		id := int64(*q.PathID)
		filter.PathID = &id
	case q.Folder != "":
		record, err := s.paths.FindLatestByName(ctx, strings.TrimSpace(q.Folder))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				id := repository.NoMatchPathID
				filter.PathID = &id
				return filter, nil
			}
			return filter, err
		}
		id := int64(record.ID)
		filter.PathID = &id
	}

	return filter, nil
}

// List returns a page of attachments matching the query, together with the
// directory listing.
func (s *AttachmentService) List(ctx context.Context, q AttachmentQuery) (*PaginatedAttachments, error) {
	page, limit := validator.ValidatePagination(q.Page, q.Limit)

	filter, err := s.buildFilter(ctx, q)
	if err != nil {
		return nil, err
	}
	sort := repository.AttachmentSort{By: q.SortBy, Order: q.SortOrder}

	total, err := s.attachments.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.attachments.Find(ctx, filter, sort, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	directories, err := s.paths.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	return s.assemblePage(rows, directories, total, page, limit), nil
}

// ListByDirectory returns a page of attachments inside a named folder. The
// folder must exist.
func (s *AttachmentService) ListByDirectory(ctx context.Context, folder string, q AttachmentQuery) (*PaginatedAttachments, error) {
	name, err := validator.ValidateFolderName(folder)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	record, err := s.paths.FindLatestByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrDirectoryNotFound, "directory not found", apperrors.CodeNotFound)
		}
		return nil, err
	}

	id := record.ID
	q.PathID = &id
	q.Folder = ""
	return s.List(ctx, q)
}

func (s *AttachmentService) assemblePage(rows []models.Attachment, directories []repository.DirectoryInfo, total int64, page, limit int) *PaginatedAttachments {
	data := make([]AttachmentDTO, 0, len(rows))
	for i := range rows {
		data = append(data, s.toDTO(&rows[i]))
	}

	dirs := make([]DirectoryDTO, 0, len(directories))
	for i := range directories {
		dirs = append(dirs, s.toDirectoryDTO(&directories[i]))
	}

	return &PaginatedAttachments{
		Directories: dirs,
		Data:        data,
		Meta:        newPageMeta(total, page, limit),
	}
}

// FindOneWithLogs retrieves a single attachment, optionally with a page of
// its activity log.
func (s *AttachmentService) FindOneWithLogs(ctx context.Context, id uint, includeLogs bool, logPage, logLimit int) (*AttachmentDetail, error) {
	attachment, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrAttachmentNotFound, "attachment not found", apperrors.CodeNotFound)
		}
		return nil, err
	}

	detail := &AttachmentDetail{Attachment: s.toDTO(attachment)}
	if !includeLogs {
		return detail, nil
	}

	page, limit := validator.ValidatePagination(logPage, logLimit)
	entries, total, err := s.activityLog.ListByAttachment(ctx, id, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	logs := &PaginatedLogs{
		Data: make([]ActivityLogDTO, 0, len(entries)),
		Meta: newPageMeta(total, page, limit),
	}
	for i := range entries {
		logs.Data = append(logs.Data, toActivityLogDTO(&entries[i]))
	}
	detail.Logs = logs
	return detail, nil
}

// Update renames and/or moves an attachment. Only the owner may update, and
// a request that changes nothing is rejected.
func (s *AttachmentService) Update(ctx context.Context, userID, id uint, req UpdateAttachmentRequest) (*AttachmentDTO, error) {
	if req.PathID != nil && req.Folder != nil {
		return nil, invalidInput("use either pathId or folder, not both")
	}

	attachment, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrAttachmentNotFound, "attachment not found", apperrors.CodeNotFound)
		}
		return nil, err
	}

	if attachment.UserID != userID {
		return nil, forbidden("you do not have permission to update this attachment")
	}

	fields := make(map[string]any)
	var changes []string

	if req.Name != nil {
		name := validator.SanitizeFilename(*req.Name)
		if name != attachment.Name {
			fields["name"] = name
			fields["kind"] = KindForFilename(name)
			changes = append(changes, fmt.Sprintf("renamed to %q", name))
		}
	}

	// An empty folder string counts as "not supplied", never as a move
	moveRequested := req.PathID != nil || (req.Folder != nil && *req.Folder != "")
	if moveRequested {
		var target *models.Path
		if req.PathID != nil {
			target, err = s.paths.GetByID(ctx, *req.PathID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, apperrors.NewAppError(apperrors.ErrPathNotFound, "path not found", apperrors.CodeNotFound)
				}
				return nil, err
			}
			if target.OwnerID != userID {
				return nil, forbidden("path belongs to another user")
			}
		} else {
			target, err = s.ensurePathWithFolder(ctx, userID, *req.Folder)
			if err != nil {
				return nil, err
			}
		}

		var targetID *uint
		if target != nil {
			tid := target.ID
			targetID = &tid
		}
		if !equalPathID(attachment.PathID, targetID) {
			// path and path_id always move together
			fields["path_id"] = targetID
			fields["path"] = logicalPath(target)
			changes = append(changes, fmt.Sprintf("moved to %s", logicalPath(target)))
		}
	}

	if len(fields) == 0 {
		return nil, invalidInput("no changes detected for attachment")
	}

	updated, err := s.attachments.UpdateByID(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrAttachmentNotFound, "attachment not found", apperrors.CodeNotFound)
		}
		return nil, err
	}

	s.recorder.Record(ctx, models.ActionAttachmentUpdate,
		strings.Join(changes, "; "), userID, &id)

	dto := s.toDTO(updated)
	return &dto, nil
}

func equalPathID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DeleteAttachment removes a single attachment, its remarks, and its stored
// file. Only the owner may delete. The file removal is best effort: the
// database row is authoritative.
func (s *AttachmentService) DeleteAttachment(ctx context.Context, userID, id uint) error {
	attachment, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewAppError(apperrors.ErrAttachmentNotFound, "attachment not found", apperrors.CodeNotFound)
		}
		return err
	}

	if attachment.UserID != userID {
		return forbidden("you do not have permission to delete this attachment")
	}

	if err := s.attachments.DeleteWithRemarks(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewAppError(apperrors.ErrAttachmentNotFound, "attachment not found", apperrors.CodeNotFound)
		}
		return err
	}

	if err := s.store.Delete(attachment.StorageKey); err != nil {
		s.logger.Warn("failed to remove stored file",
			slog.String("key", attachment.StorageKey),
			slog.String("error", err.Error()),
		)
	}

	s.recorder.Record(ctx, models.ActionAttachmentDelete,
		fmt.Sprintf("deleted %q", attachment.Name), userID, nil)
	return nil
}

// CreateFolder creates (or resolves) a named folder for the caller
func (s *AttachmentService) CreateFolder(ctx context.Context, userID uint, name string) (*FolderResult, error) {
	record, err := s.ensurePathWithFolder(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return &FolderResult{
		Folder:   "/" + record.Name,
		DiskPath: s.store.DiskPath("uploads", record.Name),
		PathID:   record.ID,
	}, nil
}

// DeleteDirectory removes a named folder with everything inside it: remarks,
// attachment rows, stored files, and the directory on disk.
func (s *AttachmentService) DeleteDirectory(ctx context.Context, userID uint, folder string) (*DeleteDirectoryResult, error) {
	name, err := validator.ValidateFolderName(folder)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	record, err := s.paths.FindByOwnerAndName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrDirectoryNotFound, "directory not found", apperrors.CodeNotFound)
		}
		return nil, err
	}

	attachments, err := s.attachments.FindByPathID(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(attachments))
	for _, a := range attachments {
		ids = append(ids, a.ID)
	}

	if err := s.paths.DeleteCascade(ctx, record.ID, ids); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrDirectoryNotFound, "directory not found", apperrors.CodeNotFound)
		}
		return nil, err
	}

	for _, a := range attachments {
		if err := s.store.Delete(a.StorageKey); err != nil {
			s.logger.Warn("failed to remove stored file",
				slog.String("key", a.StorageKey),
				slog.String("error", err.Error()),
			)
		}
	}
	if err := s.store.RemoveFolder(name); err != nil {
		s.logger.Warn("failed to remove folder on disk",
			slog.String("folder", name),
			slog.String("error", err.Error()),
		)
	}

	s.recorder.RecordNow(ctx, models.ActionFolderDelete,
		fmt.Sprintf("deleted folder %q with %d files", name, len(attachments)), userID, nil)

	return &DeleteDirectoryResult{
		Folder:       "/" + name,
		DeletedFiles: len(attachments),
	}, nil
}
