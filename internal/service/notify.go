package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"ads-activity-tracker/internal/model"
)

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04:05 MST")
	},
}).Parse(`<table border="1" cellspacing="0" cellpadding="6" style="border-collapse:collapse; font-family:Arial; font-size:14px; width:100%;">
  <thead style="background-color:#f2f2f2; text-align:left;">
    <tr>
      <th>Account</th><th>Campaign</th><th>Ad Set</th><th>Object</th>
      <th>Change</th><th>Actor</th><th>Time</th><th>Details</th>
    </tr>
  </thead>
  <tbody>
{{- range . }}
    <tr>
      <td>{{ .Account }}</td>
      <td>{{ .Campaign }}</td>
      <td>{{ .AdSet }}</td>
      <td>{{ .Object }}</td>
      <td>{{ .Change }}</td>
      <td>{{ .Actor }}</td>
      <td>{{ fmtTime .Time }}</td>
      <td>{{ .Info }}</td>
    </tr>
{{- end }}
  </tbody>
</table>
`))

// renderDigest renders the whitelist activity table for one account's e-mail.
func renderDigest(rows []model.NotificationRow) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, rows); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
