package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tabreport/adapters/loader"
	"tabreport/adapters/render"
	"tabreport/domain/report"
	"tabreport/internal/analysis"
	"tabreport/internal/defs"
	"tabreport/internal/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerateReport accepts a multipart upload (input_file) plus the JSON
// report request (request_data) and streams back a ZIP with the rendered
// artifacts.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Upload.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, errors.InvalidInput("could not parse multipart form"))
		return
	}

	file, header, err := r.FormFile("input_file")
	if err != nil {
		writeError(w, errors.InvalidInput("missing input_file upload"))
		return
	}
	defer file.Close()

	raw := r.FormValue("request_data")
	if raw == "" {
		writeError(w, errors.InvalidInput("missing request_data field"))
		return
	}
	var req report.Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		writeError(w, errors.ValidationError(fmt.Sprintf("invalid report request: %v", err)))
		return
	}

	tbl, err := loader.Load(file, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := analysis.Validate(tbl, &req); err != nil {
		writeError(w, err)
		return
	}

	blocks := analysis.RunAll(tbl, &req)
	reportBlocks, insightBlocks := render.Split(blocks)
	reportCSV := render.Report(reportBlocks)
	insightsCSV := render.Insights(insightBlocks)

	archive, err := render.Bundle(reportCSV, insightsCSV)
	if err != nil {
		writeError(w, err)
		return
	}

	name := render.ZipName(req.OutputFilename)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(archive); err != nil {
		log.Printf("writing report archive: %v", err)
	}
}

// handleHeaders extracts the normalized column headers from an upload without
// running any analysis.
func (s *Server) handleHeaders(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Upload.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, errors.InvalidInput("could not parse multipart form"))
		return
	}
	file, header, err := r.FormFile("input_file")
	if err != nil {
		writeError(w, errors.InvalidInput("missing input_file upload"))
		return
	}
	defer file.Close()

	tbl, err := loader.Load(file, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"headers": tbl.ColumnNames()})
}

func (s *Server) handleDefinitionsText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, defs.Text())
}

func (s *Server) handleDefinitionsHTML(w http.ResponseWriter, r *http.Request) {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML([]byte(defs.Markdown()), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>Definitions</title></head><body>%s</body></html>", body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

// writeError maps application errors onto HTTP statuses with a JSON detail
// body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
		switch appErr.Code {
		case errors.CodeConfigInvalid, errors.CodeValidationError, errors.CodeInvalidInput:
			status = http.StatusUnprocessableEntity
		case errors.CodeParseError:
			status = http.StatusBadRequest
		case errors.CodeNotFound:
			status = http.StatusNotFound
		}
	}
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"detail": message})
}
