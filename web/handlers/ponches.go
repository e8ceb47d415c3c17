package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"checadas.com/ponches/config"
	"checadas.com/ponches/core"
	"checadas.com/ponches/job"
	"checadas.com/ponches/logging"
	"checadas.com/ponches/model"
	"checadas.com/ponches/report"
	"checadas.com/ponches/utils"
	"checadas.com/ponches/web/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportQuery overrides the configured report settings for one request.
type ReportQuery struct {
	Format  string `form:"format" binding:"omitempty,oneof=csv xlsx"`
	Mode    string `form:"mode" binding:"omitempty,oneof=basic detailed"`
	IDOrder string `form:"idOrder" binding:"omitempty,oneof=numeric lexical"`
}

func (q ReportQuery) apply(cfg *config.Config) {
	if q.Format != "" {
		cfg.Output.Format = q.Format
	}
	if q.Mode != "" {
		cfg.Output.Mode = q.Mode
	}
	if q.IDOrder != "" {
		cfg.IDOrder = q.IDOrder
	}
}

type RowResponse struct {
	EmployeeID string               `json:"employeeId"`
	Date       common.DateOnly      `json:"date"`
	Time       string               `json:"time"`
	Timestamp  common.LocalDateTime `json:"timestamp"`
	Flag       int                  `json:"flag"`
}

func newRowResponse(r model.ReportRow) RowResponse {
	return RowResponse{
		EmployeeID: r.EmployeeID,
		Date:       common.DateOnly{Time: r.Day},
		Time:       r.Time(),
		Timestamp:  common.LocalDateTime{Time: r.Timestamp()},
		Flag:       int(r.Flag),
	}
}

type SummaryResponse struct {
	Summary job.Summary   `json:"summary"`
	Rows    []RowResponse `json:"rows"`
}

// Upload parts past this size are spooled to temporary files.
const defaultMultipartMemory = 32 << 20

type PonchesHandler struct {
	cfg    config.Config
	memory int64
}

func NewPonchesHandler(cfg config.Config) *PonchesHandler {
	return &PonchesHandler{cfg: cfg, memory: defaultMultipartMemory}
}

// Report consolidates the uploaded punch files and returns the report as an
// attachment.
func (h *PonchesHandler) Report(c *gin.Context) {
	cfg, summary, res, ok := h.collect(c)
	if !ok {
		return
	}

	opts := cfg.ReportOptions()
	opts.RunID = summary.RunID
	data, err := report.Bytes(res.Rows, opts)
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("failed to render report", zap.String("run_id", summary.RunID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()).WithRunID(summary.RunID))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ponches%s"`, opts.Format.Extension()))
	c.Header("X-Run-Id", summary.RunID)
	c.Data(http.StatusOK, opts.Format.ContentType(), data)
}

// Summary consolidates the uploaded punch files and returns the run summary
// with the report rows as JSON.
func (h *PonchesHandler) Summary(c *gin.Context) {
	_, summary, res, ok := h.collect(c)
	if !ok {
		return
	}

	rows := utils.Map(res.Rows, newRowResponse)
	c.JSON(http.StatusOK, common.NewListResponse(SummaryResponse{Summary: summary, Rows: rows}, len(rows)))
}

// collect reads the multipart upload and runs the pipeline over it. It
// writes the error response itself and reports false when the request
// cannot go on.
func (h *PonchesHandler) collect(c *gin.Context) (config.Config, job.Summary, core.Result, bool) {
	cfg := h.cfg

	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return cfg, job.Summary{}, core.Result{}, false
	}
	q.apply(&cfg)

	limit := cfg.Web.MaxUploadMB << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	if err := c.Request.ParseMultipartForm(min(limit, h.memory)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, common.NewErrorResponse(fmt.Sprintf("upload exceeds %d MB", cfg.Web.MaxUploadMB)))
			return cfg, job.Summary{}, core.Result{}, false
		}
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return cfg, job.Summary{}, core.Result{}, false
	}
	defer c.Request.MultipartForm.RemoveAll()

	headers := c.Request.MultipartForm.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("no files uploaded, use the 'files' field"))
		return cfg, job.Summary{}, core.Result{}, false
	}

	summary, res, err := job.Collect(c.Request.Context(), cfg, newUploadSource(headers))
	if errors.Is(err, core.ErrNoValidData) {
		c.JSON(http.StatusUnprocessableEntity, common.NewErrorResponse("no valid data").WithRunID(summary.RunID))
		return cfg, summary, res, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()).WithRunID(summary.RunID))
		return cfg, summary, res, false
	}
	return cfg, summary, res, true
}
