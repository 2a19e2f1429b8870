package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"ads-activity-tracker/internal/sheet"
)

const adsAPIBase = "https://googleads.googleapis.com/v17"

// AdsReportJob runs a Google Ads Query Language report via the REST
// searchStream endpoint and replaces the contents of the report tab with the
// result, one header row plus one row per result.
type AdsReportJob struct {
	httpClient     *http.Client
	sheets         sheet.Store
	log            *logrus.Logger
	customerID     string
	developerToken string
	query          string
	tab            string
	baseURL        string
}

func NewAdsReportJob(httpClient *http.Client, sheets sheet.Store, log *logrus.Logger, customerID, developerToken, query, tab string) *AdsReportJob {
	return &AdsReportJob{
		httpClient:     httpClient,
		sheets:         sheets,
		log:            log,
		customerID:     customerID,
		developerToken: developerToken,
		query:          query,
		tab:            tab,
		baseURL:        adsAPIBase,
	}
}

// searchBatch is one element of the searchStream response array.
type searchBatch struct {
	Results   []map[string]interface{} `json:"results"`
	FieldMask string                   `json:"fieldMask"`
}

func (j *AdsReportJob) Run(ctx context.Context) error {
	batches, err := j.fetch(ctx)
	if err != nil {
		return err
	}

	header, rows := flattenBatches(batches)
	if len(header) == 0 {
		j.log.Info("ads report returned no rows")
		return nil
	}

	if err := j.sheets.Clear(ctx, j.tab); err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, header)
	values = append(values, rows...)
	if err := j.sheets.Append(ctx, j.tab, values); err != nil {
		return err
	}

	j.log.WithField("rows", len(rows)).Info("ads report imported")
	return nil
}

func (j *AdsReportJob) fetch(ctx context.Context) ([]searchBatch, error) {
	payload, err := json.Marshal(map[string]string{"query": j.query})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/customers/%s/googleAds:searchStream", j.baseURL, j.customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", j.developerToken)
	req.Header.Set("login-customer-id", j.customerID)

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("ads report request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var batches []searchBatch
	if err := json.Unmarshal(body, &batches); err != nil {
		return nil, fmt.Errorf("decode ads report response: %w", err)
	}
	return batches, nil
}

// flattenBatches turns the streamed result batches into a header row taken
// from the first field mask plus one flat row per result.
func flattenBatches(batches []searchBatch) ([]interface{}, [][]interface{}) {
	var paths []string
	var rows [][]interface{}

	for _, batch := range batches {
		if len(paths) == 0 && batch.FieldMask != "" {
			paths = strings.Split(batch.FieldMask, ",")
		}
		for _, result := range batch.Results {
			row := make([]interface{}, len(paths))
			for i, path := range paths {
				row[i] = valueAtPath(result, path)
			}
			rows = append(rows, row)
		}
	}

	header := make([]interface{}, len(paths))
	for i, path := range paths {
		header[i] = path
	}
	return header, rows
}

// valueAtPath walks a dotted field mask path like "metrics.costMicros"
// through the nested result object. Missing segments yield "".
func valueAtPath(obj map[string]interface{}, path string) interface{} {
	segments := strings.Split(path, ".")
	var current interface{} = obj
	for _, seg := range segments {
		m, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current, ok = m[seg]
		if !ok {
			return ""
		}
	}
	return current
}
