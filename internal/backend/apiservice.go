package backend

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jo-hoe/shelfintake/internal/backend/database"
	"github.com/jo-hoe/shelfintake/internal/backend/datauri"
	"github.com/jo-hoe/shelfintake/internal/common"

	"github.com/labstack/echo/v4"
)

// CollectionPath is the route of the remote collection endpoint
const CollectionPath = "/notfoundproductslist"

// CollectionHeaders are the column names returned by a folder listing
var CollectionHeaders = []string{"barcode", "frontImage", "backImage", "images"}

// APIService serves the collection endpoint the intake screen uploads to
type APIService struct {
	port            int
	maxRow          int
	databaseService database.DatabaseService
}

type UpdateRowRequest struct {
	FolderName string `json:"folderName" validate:"required,notblank"`
	Row        string `json:"row" validate:"required"`
	Barcode    string `json:"barcode"`
	FrontImage string `json:"frontImage"`
	BackImage  string `json:"backImage"`
}

type UpdateRowResponse struct {
	Message    string `json:"message"`
	FolderName string `json:"folderName"`
	Row        string `json:"row"`
}

type FolderResponse struct {
	Headers []string            `json:"headers"`
	Data    []map[string]string `json:"data"`
}

// NewAPIService creates the collector; a non-positive maxRow falls back to DefaultMaxRow
func NewAPIService(port, maxRow int, databaseService database.DatabaseService) *APIService {
	if maxRow <= 0 {
		maxRow = DefaultMaxRow
	}
	return &APIService{
		port:            port,
		maxRow:          maxRow,
		databaseService: databaseService,
	}
}

func (s *APIService) Start() {
	e := common.NewEchoServer("/")
	s.SetRoutes(e)

	port := strconv.Itoa(s.port)
	log.Printf("starting server on port %s", port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", port)))
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.POST(CollectionPath, s.updateRowHandler)
	e.GET(CollectionPath, s.listFolderHandler)
}

func (s *APIService) updateRowHandler(ctx echo.Context) error {
	var request UpdateRowRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	row, err := strconv.Atoi(strings.TrimSpace(request.Row))
	if err != nil || row < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("row must be a positive integer, got %q", request.Row))
	}
	if row > s.maxRow {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("row must not exceed %d, got %d", s.maxRow, row))
	}
	for field, image := range map[string]string{"frontImage": request.FrontImage, "backImage": request.BackImage} {
		if mediaType := datauri.MediaType(image); mediaType != "" && mediaType != "image/jpeg" {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a JPEG, got %s", field, mediaType))
		}
	}

	stored, err := s.databaseService.UpsertProduct(&database.Product{
		FolderName: request.FolderName,
		Row:        row,
		Barcode:    request.Barcode,
		FrontImage: datauri.StripPrefix(request.FrontImage),
		BackImage:  datauri.StripPrefix(request.BackImage),
	})
	if err != nil {
		slog.Error("updateRowHandler: failed to store row",
			"status", http.StatusInternalServerError, "folder", request.FolderName, "row", row, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store row")
	}

	slog.Info("updateRowHandler: row stored", "folder", stored.FolderName, "row", stored.Row, "id", stored.ID)
	return ctx.JSON(http.StatusOK, UpdateRowResponse{
		Message:    "row updated",
		FolderName: stored.FolderName,
		Row:        strconv.Itoa(stored.Row),
	})
}

func (s *APIService) listFolderHandler(ctx echo.Context) error {
	folderName := ctx.QueryParam("folderName")
	if folderName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "folderName is required")
	}

	products, err := s.databaseService.GetProducts(folderName)
	if err != nil {
		slog.Error("listFolderHandler: failed to list rows",
			"status", http.StatusInternalServerError, "folder", folderName, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list rows")
	}

	return ctx.JSON(http.StatusOK, FolderResponse{
		Headers: CollectionHeaders,
		Data:    toFolderData(products),
	})
}

// toFolderData lays products out by row number; missing rows become blank
// entries so a record's position matches row-1.
func toFolderData(products []*database.Product) []map[string]string {
	lastRow := 0
	byRow := make(map[int]*database.Product, len(products))
	for _, product := range products {
		byRow[product.Row] = product
		lastRow = max(lastRow, product.Row)
	}

	data := make([]map[string]string, 0, lastRow)
	for row := 1; row <= lastRow; row++ {
		entry := map[string]string{"barcode": "", "frontImage": "", "backImage": "", "images": ""}
		if product, ok := byRow[row]; ok {
			entry["barcode"] = product.Barcode
			entry["frontImage"] = imageURI(product.FrontImage)
			entry["backImage"] = imageURI(product.BackImage)
		}
		data = append(data, entry)
	}
	return data
}

func imageURI(payload string) string {
	if payload == "" {
		return ""
	}
	return datauri.FromJPEGBase64(payload)
}
