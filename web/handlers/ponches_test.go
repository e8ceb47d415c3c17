package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"checadas.com/ponches/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type upload struct {
	name    string
	content string
}

func newUploadRequest(t *testing.T, target string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func setupRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPonchesHandler(cfg)
	r := gin.New()
	r.POST("/ponches", h.Report)
	r.POST("/ponches/summary", h.Summary)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReportCSV(t *testing.T) {
	r := setupRouter(config.Default())
	req := newUploadRequest(t, "/ponches?format=csv",
		upload{"a.txt", "10>2023-05-01 08:00\n2>2023-05-01 07:00\n"},
		upload{"a.txt", "10>2023-05-01 18:00\n10>2023-05-01 08:00\n"},
	)

	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ponches.csv"`, w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Header().Get("X-Run-Id"))
	assert.Equal(t, "\ufeffEmpleado,Fecha,Hora,EntradaSalida\n"+
		"2,2023-05-01,07:00,0\n"+
		"10,2023-05-01,08:00,0\n"+
		"10,2023-05-01,18:00,1\n", w.Body.String())
}

func TestReportLexicalOrder(t *testing.T) {
	r := setupRouter(config.Default())
	req := newUploadRequest(t, "/ponches?format=csv&idOrder=lexical",
		upload{"a.txt", "10>2023-05-01 08:00\n2>2023-05-01 07:00\n"})

	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "10,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,"))
}

func TestReportXLSXDetailed(t *testing.T) {
	r := setupRouter(config.Default())
	req := newUploadRequest(t, "/ponches?mode=detailed", upload{"BADGE.Z38", "3>2023-05-01 08:00\n"})

	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="ponches.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Checadas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fecha y Hora de Checada", rows[0][1])
	assert.Equal(t, "3", rows[1][0])
}

func TestSummary(t *testing.T) {
	r := setupRouter(config.Default())
	req := newUploadRequest(t, "/ponches/summary",
		upload{"a.txt", "5>2024-02-01 09:00\n5>2024-02-01 09:00\nbad\n"},
		upload{"b.txt", "nothing\n"})

	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Summary struct {
				Files []string `json:"files"`
				Empty []string `json:"empty"`
				Stats struct {
					ValidLines int `json:"validLines"`
					Unique     int `json:"unique"`
					Rows       int `json:"rows"`
				} `json:"stats"`
			} `json:"summary"`
			Rows []map[string]any `json:"rows"`
		} `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, []string{"a.txt", "b.txt"}, resp.Data.Summary.Files)
	assert.Equal(t, []string{"b.txt"}, resp.Data.Summary.Empty)
	assert.Equal(t, 2, resp.Data.Summary.Stats.ValidLines)
	assert.Equal(t, 1, resp.Data.Summary.Stats.Unique)
	assert.Equal(t, 1, resp.Pagination.Total)
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, map[string]any{
		"employeeId": "5",
		"date":       "2024-02-01",
		"time":       "09:00",
		"timestamp":  "2024-02-01T09:00:00",
		"flag":       float64(0),
	}, resp.Data.Rows[0])
}

func TestCollectErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Web.MaxUploadMB = 1
	r := setupRouter(cfg)

	w := serve(r, newUploadRequest(t, "/ponches?format=pdf", upload{"a.txt", "1>2023-05-01 08:00\n"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Field 'format' must be one of [csv xlsx]")

	w = serve(r, newUploadRequest(t, "/ponches"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no files uploaded")

	w = serve(r, newUploadRequest(t, "/ponches", upload{"a.txt", "garbage\n"}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"no valid data"`)
	assert.Contains(t, w.Body.String(), `"runId"`)

	big := strings.Repeat("1>2023-05-01 08:00\n", (2<<20)/19)
	w = serve(r, newUploadRequest(t, "/ponches", upload{"a.txt", big}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestReportRemovesSpooledUploads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &PonchesHandler{cfg: config.Default(), memory: 1}
	r := gin.New()
	r.POST("/ponches", h.Report)

	req := newUploadRequest(t, "/ponches?format=csv",
		upload{"a.txt", "10>2023-05-01 08:00\n10>2023-05-01 18:00\n"})

	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, req.MultipartForm)
	headers := req.MultipartForm.File["files"]
	require.Len(t, headers, 1)

	_, err := headers[0].Open()
	assert.Error(t, err)
}

func TestUploadSourceNames(t *testing.T) {
	src := newUploadSource([]*multipart.FileHeader{{Filename: "a.txt"}, {Filename: "a.txt"}, {Filename: "b.txt"}})
	names, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "a.txt (2)", "b.txt"}, names)

	_, err = src.Open(context.Background(), "c.txt")
	assert.Error(t, err)
}
