package web

import (
	"bytes"
	"html/template"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/archmetrics/internal/ingest"
	"github.com/MalithGihan/archmetrics/internal/metrics"
	"github.com/MalithGihan/archmetrics/internal/report"
	"github.com/MalithGihan/archmetrics/internal/validate"
)

const uploadField = "file"

// Handlers serves the upload form, the HTML report and the JSON/YAML API.
// Every request parses and aggregates its own upload; nothing is shared
// between requests except the metrics collectors.
type Handlers struct {
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	opts      ingest.Options
	maxUpload int64
	pages     pages
}

func NewHandlers(logger *logrus.Logger, m *metrics.Metrics, opts ingest.Options, maxUpload int64) *Handlers {
	return &Handlers{
		logger:    logger,
		metrics:   m,
		opts:      opts,
		maxUpload: maxUpload,
		pages:     parsePages(),
	}
}

// uploadError is a client mistake detected before parsing.
type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "archmetrics"})
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, h.pages.index, indexPage{MaxUpload: h.maxUpload})
}

func (h *Handlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	rep, err := h.analyzeUpload(w, r, false)
	if err != nil {
		h.renderPage(w, r, statusFor(err), h.pages.index, indexPage{Error: err.Error(), MaxUpload: h.maxUpload})
		return
	}
	h.renderPage(w, r, http.StatusOK, h.pages.report, reportPage{Report: rep})
}

func (h *Handlers) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, err := h.analyzeUpload(w, r, true)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if format != report.FormatTable {
		if err := validate.Report(rep); err != nil {
			h.logger.WithError(err).WithField("report_id", rep.ID).Error("report failed schema validation")
			writeError(w, http.StatusInternalServerError, "report failed schema validation")
			return
		}
	}

	var buf bytes.Buffer
	if err := rep.Encode(&buf, format); err != nil {
		h.logger.WithError(err).Error("encode report")
		writeError(w, http.StatusInternalServerError, "failed to encode report")
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// readUpload returns the diagram from the multipart "file" field. When
// allowRaw is set, a non-multipart body is taken as the diagram itself.
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request, allowRaw bool) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if !allowRaw {
			return "", nil, &uploadError{http.StatusBadRequest, "expected a multipart upload"}
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, uploadReadError(err)
		}
		if len(data) == 0 {
			return "", nil, &uploadError{http.StatusBadRequest, "empty request body"}
		}
		return r.URL.Query().Get("name"), data, nil
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return "", nil, uploadReadError(err)
	}
	file, fh, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, &uploadError{http.StatusBadRequest, "no file uploaded"}
	}
	defer file.Close()

	if !ingest.Supported(fh.Filename) {
		return "", nil, &uploadError{http.StatusUnsupportedMediaType, "unsupported file type: upload the Draw.io XML (.drawio or .xml) export"}
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, uploadReadError(err)
	}
	return fh.Filename, data, nil
}

func uploadReadError(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return &uploadError{http.StatusRequestEntityTooLarge, "upload exceeds the size limit"}
	}
	return &uploadError{http.StatusBadRequest, "could not read upload: " + err.Error()}
}

func (h *Handlers) analyzeUpload(w http.ResponseWriter, r *http.Request, allowRaw bool) (report.Report, error) {
	name, data, err := h.readUpload(w, r, allowRaw)
	if err != nil {
		h.metrics.Analyses.WithLabelValues(metrics.ResultRejected).Inc()
		return report.Report{}, err
	}
	return h.analyze(r, name, data)
}

// analyze runs extraction and aggregation over one upload.
func (h *Handlers) analyze(r *http.Request, name string, data []byte) (report.Report, error) {
	started := time.Now()
	log := h.logger.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"file":       name,
		"bytes":      len(data),
	})
	h.metrics.UploadBytes.Observe(float64(len(data)))

	d, err := ingest.ParseBytes(data, h.opts)
	if err != nil {
		result := metrics.ResultParseError
		var attrErr *ingest.AttributeError
		if errors.As(err, &attrErr) {
			result = metrics.ResultAttributeError
		}
		h.metrics.ObserveAnalysis(result, started)
		log.WithError(err).Warn("diagram rejected")
		return report.Report{}, err
	}

	rep := report.Build(name, d)
	h.metrics.ObserveAnalysis(metrics.ResultOK, started)
	h.metrics.ObserveDiagram(len(rep.Flows), len(rep.Nodes), len(rep.Notes))
	log.WithFields(logrus.Fields{
		"report_id": rep.ID,
		"flows":     len(rep.Flows),
		"nodes":     len(rep.Nodes),
		"notes":     len(rep.Notes),
	}).Info("diagram analyzed")
	return rep, nil
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, status int, page *template.Template, data any) {
	var buf bytes.Buffer
	if err := render(&buf, page, data); err != nil {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("template error")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func statusFor(err error) int {
	var (
		upErr    *uploadError
		parseErr *ingest.ParseError
		attrErr  *ingest.AttributeError
	)
	switch {
	case errors.As(err, &upErr):
		return upErr.status
	case errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.As(err, &attrErr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatYAML:
		return "application/yaml"
	case report.FormatTable:
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}
