package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jo-hoe/shelfintake/internal/backend/commandstructure"
	"github.com/jo-hoe/shelfintake/internal/backend/compression"
	"github.com/jo-hoe/shelfintake/internal/backend/datauri"
	"github.com/jo-hoe/shelfintake/internal/backend/export"
	"github.com/jo-hoe/shelfintake/internal/backend/folderstore"
	"github.com/jo-hoe/shelfintake/internal/backend/labels"
	"github.com/jo-hoe/shelfintake/internal/backend/remotesync"
	"github.com/jo-hoe/shelfintake/internal/backend/rowstore"
)

// RowUploader is the remote collection endpoint
type RowUploader interface {
	Update(ctx context.Context, request remotesync.UpdateRequest) (any, error)
	Fetch(ctx context.Context, folderName string) (*remotesync.FetchResponse, error)
}

type ImageCompressor interface {
	Compress(ctx context.Context, source []byte) (*compression.Result, error)
}

type RowExporter interface {
	Export(ctx context.Context, rows []rowstore.Row) (string, error)
}

// PermissionRequester asks for access to the media library
type PermissionRequester interface {
	RequestMediaLibraryPermission(ctx context.Context) (bool, error)
}

// StaticPermission answers every permission request with the same result
type StaticPermission bool

func (p StaticPermission) RequestMediaLibraryPermission(_ context.Context) (bool, error) {
	return bool(p), nil
}

// Dependencies are the collaborators of an IntakeService
type Dependencies struct {
	FolderStore folderstore.FolderStore
	Uploader    RowUploader
	Compressor  ImageCompressor
	Exporter    RowExporter
	Permissions PermissionRequester
}

// View is the state the intake screen renders
type View struct {
	Columns []string       `json:"columns"`
	Rows    []rowstore.Row `json:"rows"`
	Edit    EditState      `json:"edit"`
	Capture CaptureState   `json:"capture"`
}

var (
	blankRowColumns = []string{"Barcode", "Image", "Update", "Front Image", "Back Image"}
	fetchColumns    = []string{"Barcode", "Front Image", "Back Image", "Images", "Update"}
)

// IntakeService owns the row table and runs the screen's handlers one at a time
type IntakeService struct {
	mu sync.Mutex

	config      *ServiceConfig
	rows        *rowstore.Store
	folders     folderstore.FolderStore
	uploader    RowUploader
	compressor  ImageCompressor
	exporter    RowExporter
	permissions PermissionRequester
	preprocess  *commandstructure.CommandInvoker

	edit        barcodeEdit
	capture     captureSession
	mediaAccess bool
}

// NewIntakeService wires the service from already built collaborators
func NewIntakeService(config *ServiceConfig, deps Dependencies) (*IntakeService, error) {
	if deps.FolderStore == nil || deps.Uploader == nil || deps.Compressor == nil || deps.Exporter == nil {
		return nil, errors.New("intake service requires folder store, uploader, compressor and exporter")
	}
	if deps.Permissions == nil {
		deps.Permissions = StaticPermission(config.MediaLibraryAccess == "granted")
	}

	commands, err := commandstructure.BuildCommands(config.Commands)
	if err != nil {
		return nil, fmt.Errorf("failed to build preprocessing commands: %w", err)
	}

	rows := rowstore.NewStore()
	if config.Variant == VariantBlankRow {
		rows = rowstore.NewBlankStore()
	}

	return &IntakeService{
		config:      config,
		rows:        rows,
		folders:     deps.FolderStore,
		uploader:    deps.Uploader,
		compressor:  deps.Compressor,
		exporter:    deps.Exporter,
		permissions: deps.Permissions,
		preprocess:  commandstructure.NewCommandInvoker(commands),
	}, nil
}

// NewIntakeServiceFromConfig builds the default collaborators from config
func NewIntakeServiceFromConfig(config *ServiceConfig) (*IntakeService, error) {
	folders, err := folderstore.NewFolderStore(config.FolderStore.Type, config.FolderStore.ConnectionString, config.FolderStore.FolderName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize folder store: %w", err)
	}

	client := remotesync.NewClient(config.Endpoint, remotesync.WithTimeout(config.RequestTimeout))
	service, err := NewIntakeService(config, Dependencies{
		FolderStore: folders,
		Uploader:    client,
		Compressor:  compression.NewCompressor(compression.NewCommandCodec(), config.Compression),
		Exporter:    export.NewExporter(config.CacheDir),
	})
	if err != nil {
		_ = folders.Close()
		return nil, err
	}
	slog.Info("intake service initialized", "variant", config.Variant, "endpoint", client.Endpoint())
	return service, nil
}

func (s *IntakeService) Close() error {
	return s.folders.Close()
}

// View returns a snapshot of the screen state
func (s *IntakeService) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *IntakeService) view() View {
	columns := blankRowColumns
	if s.config.Variant == VariantFetch {
		columns = fetchColumns
	}
	return View{
		Columns: append([]string(nil), columns...),
		Rows:    s.rows.Snapshot(),
		Edit:    s.edit.state(),
		Capture: s.capture.state(),
	}
}

// notify logs a handler failure and turns it into an alert
func notify(handler string, err error) *Notification {
	if err == nil {
		return nil
	}
	slog.Error("IntakeService: handler failed", "handler", handler, "kind", KindOf(err), "error", err)
	return errorNotification(err)
}

// Load runs the mount sequence. The blank-row variant starts over with a
// single blank row; the fetch variant loads the folder's rows.
func (s *IntakeService) Load(ctx context.Context) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return notify("Load", s.load(ctx))
}

// Refresh resets the table the same way Load does
func (s *IntakeService) Refresh(ctx context.Context) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.Variant == VariantBlankRow {
		s.resetRows()
		return nil
	}
	return notify("Refresh", s.load(ctx))
}

func (s *IntakeService) load(ctx context.Context) error {
	if s.config.Variant == VariantBlankRow {
		s.resetRows()
		s.requestMediaAccess(ctx)
		return nil
	}

	folderName, err := s.folders.GetFolderName(ctx)
	if err != nil || folderName == "" {
		return newIntakeError(KindPreconditionFailed, "Error", "Folder name not found. Please set a folder name first.", err)
	}

	s.requestMediaAccess(ctx)

	response, err := s.uploader.Fetch(ctx, folderName)
	if err != nil {
		return newIntakeError(remoteErrorKind(err), "Error", "Failed to fetch data: "+remoteErrorMessage(err), err)
	}
	s.rows.ReplaceAll(response.ToRows())
	s.discardSessions()
	slog.Info("IntakeService: rows loaded", "folder", folderName, "rows", s.rows.Len())
	return nil
}

func (s *IntakeService) resetRows() {
	s.rows.Reset()
	s.discardSessions()
}

// discardSessions closes the edit dialog and the scanner/camera, whose row
// indexes no longer refer to the replaced table
func (s *IntakeService) discardSessions() {
	s.edit.cancel()
	s.capture.close()
}

func (s *IntakeService) requestMediaAccess(ctx context.Context) {
	granted, err := s.permissions.RequestMediaLibraryPermission(ctx)
	if err != nil {
		slog.Warn("IntakeService: media library permission request failed", "error", err)
		granted = false
	}
	s.mediaAccess = granted
}

func remoteErrorKind(err error) ErrorKind {
	if errors.Is(err, remotesync.ErrMalformedResponse) {
		return KindMalformedResponse
	}
	return KindNetworkError
}

func remoteErrorMessage(err error) string {
	if errors.Is(err, remotesync.ErrMalformedResponse) {
		return remotesync.ErrMalformedResponse.Error()
	}
	return err.Error()
}

func rowMissing(index int, err error) *IntakeError {
	return newIntakeError(KindIndexOutOfRange, "Error", fmt.Sprintf("Row %d does not exist.", index+1), err)
}

func (s *IntakeService) checkIndex(index int) error {
	if index < 0 || index >= s.rows.Len() {
		return rowMissing(index, rowstore.ErrIndexOutOfRange)
	}
	return nil
}

// StartScan opens the barcode scanner for the row at index
func (s *IntakeService) StartScan(index int) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return notify("StartScan", err)
	}
	return notify("StartScan", s.capture.start(CaptureScanning, index))
}

// StartCapture opens the camera for the row at index
func (s *IntakeService) StartCapture(index int) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return notify("StartCapture", err)
	}
	return notify("StartCapture", s.capture.start(CaptureImage, index))
}

// CloseCapture dismisses the scanner or camera without changing any row
func (s *IntakeService) CloseCapture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capture.close()
}

// OnBarcodeScanned writes a scanned value into the session's row and closes
// the session. Scans without an active session are ignored.
func (s *IntakeService) OnBarcodeScanned(value string) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, ok := s.capture.activeIndex()
	if !ok {
		slog.Debug("IntakeService: ignoring scan without active session")
		return nil
	}
	s.capture.close()

	if err := s.rows.SetField(index, rowstore.FieldBarcode, value); err != nil {
		return notify("OnBarcodeScanned", rowMissing(index, err))
	}
	return infoNotification("Barcode scanned", "Data: "+value)
}

// OnPictureTaken compresses a camera picture into the front or back image of
// the session's row. A failed compression keeps the camera open.
func (s *IntakeService) OnPictureTaken(ctx context.Context, side string, picture []byte) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, ok := s.capture.activeIndex()
	if !ok {
		slog.Debug("IntakeService: ignoring picture without active session")
		return nil
	}

	var field rowstore.Field
	switch side {
	case PictureSideFront:
		field = rowstore.FieldFrontImage
	case PictureSideBack:
		field = rowstore.FieldBackImage
	default:
		return notify("OnPictureTaken", newIntakeError(KindValidationError, "Error", fmt.Sprintf("Unknown picture side %q.", side), nil))
	}

	uri, err := s.compressPicture(ctx, picture)
	if err != nil {
		return notify("OnPictureTaken", newIntakeError(KindCompressionError, "Error", "Failed to compress scanned image.", err))
	}

	if err := s.rows.SetField(index, field, uri); err != nil {
		s.capture.close()
		return notify("OnPictureTaken", rowMissing(index, err))
	}
	s.capture.close()
	return nil
}

// PickImage compresses a picture from the media library into the row's image field
func (s *IntakeService) PickImage(ctx context.Context, index int, picture []byte) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mediaAccess {
		return notify("PickImage", newIntakeError(KindPermissionDenied, "Permission required", "Please grant media library access.", nil))
	}
	if err := s.checkIndex(index); err != nil {
		return notify("PickImage", err)
	}

	uri, err := s.compressPicture(ctx, picture)
	if err != nil {
		return notify("PickImage", newIntakeError(KindCompressionError, "Error", "Failed to pick image.", err))
	}
	if err := s.rows.SetField(index, rowstore.FieldImage, uri); err != nil {
		return notify("PickImage", rowMissing(index, err))
	}
	return nil
}

func (s *IntakeService) compressPicture(ctx context.Context, picture []byte) (string, error) {
	prepared, err := s.preprocess.Execute(picture)
	if err != nil {
		return "", fmt.Errorf("failed to preprocess picture: %w", err)
	}
	result, err := s.compressor.Compress(ctx, prepared)
	if err != nil {
		return "", err
	}
	return datauri.FromJPEGBase64(result.Base64), nil
}

// Update uploads the row at index to the configured folder
func (s *IntakeService) Update(ctx context.Context, index int) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, index)
}

func (s *IntakeService) update(ctx context.Context, index int) *Notification {
	folderName, err := s.folders.GetFolderName(ctx)
	if err != nil || folderName == "" {
		return notify("Update", newIntakeError(KindPreconditionFailed, "Error", "Folder name not set.", err))
	}

	row, err := s.rows.Get(index)
	if err != nil {
		return notify("Update", rowMissing(index, err))
	}

	request := remotesync.NewUpdateRequest(folderName, index, row)
	slog.Info("IntakeService: updating row",
		"row", request.Row,
		"barcode", request.Barcode,
		"front_image_size", len(request.FrontImage),
		"back_image_size", len(request.BackImage))

	ack, err := s.uploader.Update(ctx, request)
	if err != nil {
		return notify("Update", newIntakeError(remoteErrorKind(err), "Error", "Failed to update data: "+remoteErrorMessage(err), err))
	}
	slog.Info("IntakeService: update acknowledged", "row", request.Row, "response", ack)

	if s.config.Variant == VariantBlankRow {
		s.rows.Append(rowstore.BlankRow())
	}
	return successNotification("Success", "Data updated successfully.")
}

// BeginBarcodeEdit opens the edit dialog seeded with the row's barcode
func (s *IntakeService) BeginBarcodeEdit(index int) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.rows.Get(index)
	if err != nil {
		return notify("BeginBarcodeEdit", rowMissing(index, err))
	}
	s.edit.begin(index, row.Barcode)
	return nil
}

// SetBarcodeDraft replaces the text in the edit dialog
func (s *IntakeService) SetBarcodeDraft(value string) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return notify("SetBarcodeDraft", s.edit.setDraft(value))
}

// ConfirmBarcodeEdit writes the draft into the row and uploads that row once
func (s *IntakeService) ConfirmBarcodeEdit(ctx context.Context) *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, draft, err := s.edit.confirm()
	if err != nil {
		return notify("ConfirmBarcodeEdit", err)
	}
	if err := s.rows.SetField(index, rowstore.FieldBarcode, draft); err != nil {
		return notify("ConfirmBarcodeEdit", rowMissing(index, err))
	}
	return s.update(ctx, index)
}

// CancelBarcodeEdit closes the edit dialog without changes
func (s *IntakeService) CancelBarcodeEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.cancel()
}

// Export writes the current rows to data.xlsx and returns the file path
func (s *IntakeService) Export(ctx context.Context) (string, *Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.exporter.Export(ctx, s.rows.Snapshot())
	if err != nil {
		return "", notify("Export", newIntakeError(KindExportError, "Error", "Failed to save file: "+err.Error(), err))
	}
	return path, nil
}

// RowImage returns the decoded JPEG stored in an image field of a row
func (s *IntakeService) RowImage(index int, field rowstore.Field) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.rows.Get(index)
	if err != nil {
		return nil, err
	}
	value, err := row.Value(field)
	if err != nil {
		return nil, err
	}
	return datauri.Decode(value)
}

// BarcodePreview renders the row's barcode as a Code 128 PNG
func (s *IntakeService) BarcodePreview(index int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.rows.Get(index)
	if err != nil {
		return nil, err
	}
	return labels.RenderCode128PNG(row.Barcode, s.config.BarcodePreview.Width, s.config.BarcodePreview.Height)
}
