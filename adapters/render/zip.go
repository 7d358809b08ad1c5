package render

import (
	"archive/zip"
	"bytes"
	"strings"

	"tabreport/internal/errors"
)

// Bundle packs the rendered artifacts into an in-memory ZIP. Empty artifacts
// are left out of the archive.
func Bundle(reportCSV, insightsCSV string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name    string
		content string
	}{
		{"report.csv", reportCSV},
		{"insights.csv", insightsCSV},
	}
	for _, e := range entries {
		if e.content == "" {
			continue
		}
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, errors.Wrap(err, "creating zip entry")
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			return nil, errors.Wrap(err, "writing zip entry")
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "closing zip")
	}
	return buf.Bytes(), nil
}

// ZipName derives the download filename from the requested output name,
// swapping any extension for .zip.
func ZipName(outputFilename string) string {
	name := outputFilename
	if name == "" {
		name = "generated_report"
	}
	if strings.HasSuffix(strings.ToLower(name), ".zip") {
		return name
	}
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	return name + ".zip"
}
