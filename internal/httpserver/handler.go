package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/homescout/homescout/internal/errors"
	"github.com/homescout/homescout/internal/listings"
	"github.com/homescout/homescout/internal/middleware"
	"github.com/homescout/homescout/internal/monitoring"
	"github.com/homescout/homescout/internal/ranking"
)

// Ranker runs one ranking request; satisfied by *ranking.Pipeline.
type Ranker interface {
	Run(ctx context.Context, records []listings.Record, params ranking.Params) (*ranking.Result, error)
}

// RankHandler serves the tool invocation boundary: an uploaded listings file
// plus query parameters in, a ranked table (or one-line diagnostic) out.
type RankHandler struct {
	ranker  Ranker
	metrics *monitoring.Collector
}

// NewRankHandler creates the handler for the /v1/rank endpoint.
func NewRankHandler(ranker Ranker, metrics *monitoring.Collector) *RankHandler {
	return &RankHandler{ranker: ranker, metrics: metrics}
}

// Rank handles one tool invocation.
func (h *RankHandler) Rank(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.fail(c, apperrors.NewInputError("a listings file upload is required"))
		return
	}
	defer file.Close()

	params, err := h.parseParams(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	records, err := listings.ParseFile(header.Filename, file)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.ranker.Run(c.Request.Context(), records, params)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.record("ok")
	c.String(http.StatusOK, result.Render())
}

// parseParams reads the ranking parameters from the form (or query string),
// applying documented defaults for anything absent.
func (h *RankHandler) parseParams(c *gin.Context) (ranking.Params, error) {
	params := ranking.DefaultParams()

	if v := h.formOrQuery(c, "location"); v != "" {
		params.Location = v
	}
	if v := h.formOrQuery(c, "poiType"); v != "" {
		params.POIType = v
	}
	if v := h.formOrQuery(c, "maxPrice"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, apperrors.NewValidationError("maxPrice",
				fmt.Sprintf("maxPrice must be a number, got %q", v))
		}
		params.MaxPrice = n
	}
	if v := h.formOrQuery(c, "minRooms"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, apperrors.NewValidationError("minRooms",
				fmt.Sprintf("minRooms must be a number, got %q", v))
		}
		params.MinRooms = n
	}
	if v := h.formOrQuery(c, "topN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, apperrors.NewValidationError("topN",
				fmt.Sprintf("topN must be an integer, got %q", v))
		}
		params.TopN = n
	}

	return params, nil
}

func (h *RankHandler) formOrQuery(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

func (h *RankHandler) fail(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		h.record(string(appErr.Type))
	} else {
		h.record("error")
	}
	middleware.HandleError(c, err)
}

func (h *RankHandler) record(status string) {
	if h.metrics != nil {
		h.metrics.RecordRankingRequest(status)
	}
}
