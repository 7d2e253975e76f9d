// Package qualtrics is a client for the survey platform's v3 API:
// listing surveys, reading question metadata and exporting responses.
// Credential storage and retry policy live outside this package; the
// caller supplies a token and resty's defaults handle the transport.
package qualtrics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dcosme/score-qualtrics/lib/restyutil"
	"github.com/dcosme/score-qualtrics/lib/telemetry"
	"github.com/dcosme/score-qualtrics/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("qualtrics")

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput dumps raw API exchanges of clients created
// afterwards, for debugging malformed exports.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	instrumentOutput = output
}

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// e.g. https://yourdatacenter.qualtrics.com
	BaseUrl  string
	ApiToken string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		return nil, fmt.Errorf("a base url was not specified")
	}
	if opts.ApiToken == "" {
		return nil, fmt.Errorf("an api token was not specified")
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetHeader("X-API-TOKEN", opts.ApiToken)

	telemetry.InstrumentResty(client, "qualtrics/http")
	restyutil.DumpExchanges(client, instrumentOutput)

	return &Client{http: client}, nil
}

func apiError(status int, m meta) error {
	if m.Error != nil {
		return fmt.Errorf("qualtrics api: %s (%s)", m.Error.ErrorMessage, m.Error.ErrorCode)
	}
	return fmt.Errorf("qualtrics api: unexpected status %d", status)
}

// ListSurveys returns every survey visible to the token, following
// pagination to the end.
func (c *Client) ListSurveys(ctx context.Context) ([]Survey, error) {
	ctx, span := tracer.Start(ctx, "ListSurveys")
	defer span.End()

	var out []Survey
	url := "/API/v3/surveys"
	for url != "" {
		var body listSurveysResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetResult(&body).
			Get(url)
		if err != nil {
			span.SetStatus(codes.Error, "failed to fetch survey list")
			return nil, err
		}
		if res.IsError() {
			span.SetStatus(codes.Error, "survey list request rejected")
			return nil, apiError(res.StatusCode(), body.Meta)
		}
		out = append(out, body.Result.Elements...)
		url = body.Result.NextPage
	}
	return out, nil
}

// FindSurvey looks a survey up by id or, failing that, by exact name.
func (c *Client) FindSurvey(ctx context.Context, idOrName string) (Survey, error) {
	surveys, err := c.ListSurveys(ctx)
	if err != nil {
		return Survey{}, err
	}
	for _, s := range surveys {
		if s.Id == idOrName {
			return s, nil
		}
	}
	for _, s := range surveys {
		if s.Name == idOrName {
			return s, nil
		}
	}
	return Survey{}, fmt.Errorf("no survey named %q", idOrName)
}

// GetQuestions returns the survey's questions with html question text
// stripped down to plain labels.
func (c *Client) GetQuestions(ctx context.Context, surveyId string) ([]Question, error) {
	ctx, span := tracer.Start(ctx, "GetQuestions")
	defer span.End()

	var body getSurveyResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/API/v3/surveys/%s", surveyId))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch survey")
		return nil, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "survey request rejected")
		return nil, apiError(res.StatusCode(), body.Meta)
	}

	out := make([]Question, 0, len(body.Result.Questions))
	for id, q := range body.Result.Questions {
		out = append(out, Question{
			Id:    id,
			Name:  q.QuestionName,
			Label: stripHtml(q.QuestionText),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func stripHtml(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return textutil.CollapseSpace(html)
	}
	return textutil.CollapseSpace(doc.Text())
}
