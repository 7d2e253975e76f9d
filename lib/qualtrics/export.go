package qualtrics

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dcosme/score-qualtrics/lib/tidy"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const exportPollInterval = time.Second * 2

// ExportResponses runs the platform's three-step response export:
// start an export job, poll its progress, then download and unpack
// the resulting csv into a wide table.
func (c *Client) ExportResponses(ctx context.Context, surveyId string) (tidy.WideTable, error) {
	ctx, span := tracer.Start(ctx, "ExportResponses")
	defer span.End()
	span.SetAttributes(attribute.String("survey_id", surveyId))

	progressId, err := c.startExport(ctx, surveyId)
	if err != nil {
		span.SetStatus(codes.Error, "failed to start export")
		return tidy.WideTable{}, err
	}

	fileId, err := c.pollExport(ctx, surveyId, progressId)
	if err != nil {
		span.SetStatus(codes.Error, "export job failed")
		return tidy.WideTable{}, err
	}

	archive, err := c.downloadExport(ctx, surveyId, fileId)
	if err != nil {
		span.SetStatus(codes.Error, "failed to download export")
		return tidy.WideTable{}, err
	}

	table, err := ParseExport(archive)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse export")
		return tidy.WideTable{}, err
	}
	span.SetAttributes(attribute.Int("rows", len(table.Rows)))
	return table, nil
}

func (c *Client) startExport(ctx context.Context, surveyId string) (string, error) {
	var body startExportResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"format": "csv", "useLabels": true}).
		SetResult(&body).
		Post(fmt.Sprintf("/API/v3/surveys/%s/export-responses", surveyId))
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", apiError(res.StatusCode(), body.Meta)
	}
	return body.Result.ProgressId, nil
}

func (c *Client) pollExport(ctx context.Context, surveyId, progressId string) (string, error) {
	ticker := time.NewTicker(exportPollInterval)
	defer ticker.Stop()

	for {
		var body exportProgressResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetResult(&body).
			Get(fmt.Sprintf("/API/v3/surveys/%s/export-responses/%s", surveyId, progressId))
		if err != nil {
			return "", err
		}
		if res.IsError() {
			return "", apiError(res.StatusCode(), body.Meta)
		}

		switch body.Result.Status {
		case "complete":
			return body.Result.FileId, nil
		case "failed":
			return "", fmt.Errorf("export job %s failed server-side", progressId)
		}
		slog.DebugContext(
			ctx, "export in progress",
			"survey_id", surveyId,
			"percent", body.Result.PercentComplete,
		)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (c *Client) downloadExport(ctx context.Context, surveyId, fileId string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/API/v3/surveys/%s/export-responses/%s/file", surveyId, fileId))
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("qualtrics api: unexpected status %d downloading export", res.StatusCode())
	}
	return res.Body(), nil
}

// ParseExport unpacks a downloaded export archive. The zip holds one
// csv whose first row is the column names, followed by two extra
// header rows (question text and import ids) that are skipped.
func ParseExport(archive []byte) (tidy.WideTable, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return tidy.WideTable{}, fmt.Errorf("export is not a zip archive: %w", err)
	}

	var file io.ReadCloser
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".csv") {
			file, err = f.Open()
			if err != nil {
				return tidy.WideTable{}, err
			}
			break
		}
	}
	if file == nil {
		return tidy.WideTable{}, fmt.Errorf("export archive contains no csv")
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return tidy.WideTable{}, err
	}
	if len(rows) < 3 {
		return tidy.WideTable{}, fmt.Errorf("export csv is missing its header rows")
	}

	return tidy.WideTable{
		Columns: rows[0],
		Rows:    rows[3:],
	}, nil
}
