package frontend

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jo-hoe/shelfintake/internal/backend/export"
	"github.com/jo-hoe/shelfintake/internal/backend/rowstore"
	"github.com/jo-hoe/shelfintake/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// ScreenResponse is returned by every screen action
type ScreenResponse struct {
	core.View
	Notification *core.Notification `json:"notification,omitempty"`
}

type ValueRequest struct {
	Value string `json:"value" validate:"required"`
}

type DraftRequest struct {
	Value string `json:"value"`
}

type FrontendService struct {
	intakeService *core.IntakeService
}

func NewFrontendService(intakeService *core.IntakeService) *FrontendService {
	return &FrontendService{
		intakeService: intakeService,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.GET("/probe", service.probeHandler)

	e.GET("/rows", service.rowsHandler)
	e.POST("/rows/refresh", service.refreshHandler)
	e.POST("/rows/:index/scan", service.startScanHandler)
	e.POST("/rows/:index/capture", service.startCaptureHandler)
	e.POST("/rows/:index/pick", service.pickImageHandler)
	e.POST("/rows/:index/update", service.updateHandler)
	e.POST("/rows/:index/barcode/edit", service.beginBarcodeEditHandler)
	e.GET("/rows/:index/image/:field", service.rowImageHandler)
	e.GET("/rows/:index/barcode.png", service.barcodePreviewHandler)

	e.POST("/scan/barcode", service.barcodeScannedHandler)
	e.POST("/capture/picture", service.pictureTakenHandler)
	e.POST("/capture/close", service.closeCaptureHandler)

	e.PUT("/barcode/draft", service.barcodeDraftHandler)
	e.POST("/barcode/confirm", service.confirmBarcodeHandler)
	e.POST("/barcode/cancel", service.cancelBarcodeHandler)

	e.GET("/export.xlsx", service.exportHandler)
}

func (service *FrontendService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Intake Service is running")
}

// respond renders the screen state with the handler's notification
func (service *FrontendService) respond(ctx echo.Context, notification *core.Notification) error {
	service.setNoCache(ctx)
	return ctx.JSON(statusFor(notification), ScreenResponse{
		View:         service.intakeService.View(),
		Notification: notification,
	})
}

func statusFor(notification *core.Notification) int {
	if notification == nil || notification.Level != core.LevelError {
		return http.StatusOK
	}
	switch notification.Kind {
	case core.KindPermissionDenied:
		return http.StatusForbidden
	case core.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case core.KindValidationError, core.KindCompressionError:
		return http.StatusUnprocessableEntity
	case core.KindIndexOutOfRange:
		return http.StatusNotFound
	case core.KindNetworkError, core.KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (service *FrontendService) rowsHandler(ctx echo.Context) error {
	return service.respond(ctx, nil)
}

func (service *FrontendService) refreshHandler(ctx echo.Context) error {
	return service.respond(ctx, service.intakeService.Refresh(ctx.Request().Context()))
}

func (service *FrontendService) startScanHandler(ctx echo.Context) error {
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}
	return service.respond(ctx, service.intakeService.StartScan(index))
}

func (service *FrontendService) startCaptureHandler(ctx echo.Context) error {
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}
	return service.respond(ctx, service.intakeService.StartCapture(index))
}

func (service *FrontendService) closeCaptureHandler(ctx echo.Context) error {
	service.intakeService.CloseCapture()
	return service.respond(ctx, nil)
}

func (service *FrontendService) barcodeScannedHandler(ctx echo.Context) error {
	var request ValueRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}
	return service.respond(ctx, service.intakeService.OnBarcodeScanned(request.Value))
}

func (service *FrontendService) pictureTakenHandler(ctx echo.Context) error {
	picture, err := readUploadedImage(ctx, "pictureTakenHandler")
	if err != nil {
		return err
	}
	side := ctx.FormValue("side")
	return service.respond(ctx, service.intakeService.OnPictureTaken(ctx.Request().Context(), side, picture))
}

func (service *FrontendService) pickImageHandler(ctx echo.Context) error {
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}
	picture, err := readUploadedImage(ctx, "pickImageHandler")
	if err != nil {
		return err
	}
	return service.respond(ctx, service.intakeService.PickImage(ctx.Request().Context(), index, picture))
}

func (service *FrontendService) updateHandler(ctx echo.Context) error {
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}
	return service.respond(ctx, service.intakeService.Update(ctx.Request().Context(), index))
}

func (service *FrontendService) beginBarcodeEditHandler(ctx echo.Context) error {
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}
	return service.respond(ctx, service.intakeService.BeginBarcodeEdit(index))
}

func (service *FrontendService) barcodeDraftHandler(ctx echo.Context) error {
	var request DraftRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	return service.respond(ctx, service.intakeService.SetBarcodeDraft(request.Value))
}

func (service *FrontendService) confirmBarcodeHandler(ctx echo.Context) error {
	return service.respond(ctx, service.intakeService.ConfirmBarcodeEdit(ctx.Request().Context()))
}

func (service *FrontendService) cancelBarcodeHandler(ctx echo.Context) error {
	service.intakeService.CancelBarcodeEdit()
	return service.respond(ctx, nil)
}

func (service *FrontendService) rowImageHandler(ctx echo.Context) error {
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}
	field, err := rowstore.ParseField(ctx.Param("field"))
	if err != nil || field == rowstore.FieldBarcode {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown image field %q", ctx.Param("field")))
	}

	image, err := service.intakeService.RowImage(index, field)
	if err != nil {
		slog.Warn("rowImageHandler: image not available",
			"status", http.StatusNotFound, "index", index, "field", field, "error", err)
		return ctx.String(http.StatusNotFound, "Image not available")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimeJPEG, image)
}

func (service *FrontendService) barcodePreviewHandler(ctx echo.Context) error {
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}

	preview, err := service.intakeService.BarcodePreview(index)
	if err != nil {
		slog.Warn("barcodePreviewHandler: barcode not available",
			"status", http.StatusNotFound, "index", index, "error", err)
		return ctx.String(http.StatusNotFound, "Barcode not available")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimePNG, preview)
}

func (service *FrontendService) exportHandler(ctx echo.Context) error {
	path, notification := service.intakeService.Export(ctx.Request().Context())
	if notification != nil {
		return service.respond(ctx, notification)
	}
	return ctx.Attachment(path, export.FileName)
}

func indexParam(ctx echo.Context) (int, error) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid row index %q", ctx.Param("index")))
	}
	return index, nil
}

func readUploadedImage(ctx echo.Context, handler string) ([]byte, error) {
	// Get uploaded file
	file, err := ctx.FormFile("image")
	if err != nil {
		slog.Error(handler+": failed to get uploaded file",
			"status", http.StatusBadRequest, "error", err)
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Failed to get uploaded file")
	}

	src, err := file.Open()
	if err != nil {
		slog.Error(handler+": failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to open uploaded file")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error(handler+": failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	// Read file content reliably
	image, err := io.ReadAll(src)
	if err != nil {
		slog.Error(handler+": failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file")
	}
	return image, nil
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
