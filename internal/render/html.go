package render

import (
	"html/template"
	"io"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

const pageHead = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>User Activity Dashboard</title>
  <style>
    body { font-family: -apple-system, Segoe UI, Roboto, sans-serif; margin: 2rem; color: #222; }
    h1 { margin-bottom: 0; }
    .sub { color: #666; margin-bottom: 1.5rem; }
    .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 0.8rem; }
    .card { border: 1px solid #ddd; border-radius: 8px; padding: 0.8rem; }
    .card .v { font-size: 1.6rem; font-weight: 600; }
    table { border-collapse: collapse; margin: 0.5rem 0 1.5rem; }
    th, td { border: 1px solid #ddd; padding: 0.3rem 0.6rem; text-align: left; }
    th { background: #f5f5f5; }
    .bar { background: steelblue; height: 0.9rem; }
    .error { color: #b00020; }
    .note { color: #8a6d00; }
  </style>
</head>
<body>
  <h1>User Activity Dashboard</h1>
  <div class="sub">Weekly User Activity Analysis</div>
`

const uploadHTML = pageHead + `
  <h2>Upload Your Data</h2>
  {{if .Error}}<p class="error">{{.Error}}</p><p>{{.Hint}}</p>{{end}}
  <form method="post" action="/report" enctype="multipart/form-data">
    <p><input type="file" name="file" accept=".csv,text/csv" required></p>
    <p>Top N users per country:
      <input type="number" name="top_n" min="{{.MinTopN}}" max="{{.MaxTopN}}" value="{{.TopN}}"></p>
    <p><button type="submit">Generate report</button></p>
  </form>
  <h2>File Format Requirements</h2>
  <p>Your CSV file should contain weekly user activity data with the following columns
    (<a href="/v1/reports/template">download a sample</a>):</p>
  <table>
    <tr><th>Column</th><th>Required</th><th>Description</th></tr>
    {{range .Columns}}<tr><td>{{.Name}}</td><td>{{if .Required}}yes{{else}}no{{end}}</td><td>{{.Description}}</td></tr>
    {{end}}
  </table>
</body>
</html>
`

const reportHTML = pageHead + `
  <h2>Data Preview</h2>
  <p>Loaded {{.R.Overview.Records}} weekly records</p>
  <table>
    <tr><th>Full Name</th><th>Country</th><th>Division</th><th>Week</th>{{if .R.HasSalesRepEmail}}<th>Email</th>{{end}}<th>Logins</th></tr>
    {{range .R.Preview}}<tr><td>{{.FullName}}</td><td>{{.Country}}</td><td>{{.Division}}</td><td>{{.WeekPeriod}}</td>{{if $.R.HasSalesRepEmail}}<td>{{.SalesRepEmail}}</td>{{end}}<td>{{.Logins}}</td></tr>
    {{end}}
  </table>

  <h2>Overview</h2>
  <div class="grid">
    <div class="card"><div>Total Users</div><div class="v">{{.R.Overview.TotalUsers}}</div></div>
    <div class="card"><div>Active Users</div><div class="v">{{.R.Overview.ActiveUsers}}</div></div>
    <div class="card"><div>Countries</div><div class="v">{{.R.Overview.Countries}}</div></div>
    <div class="card"><div>Date Range</div><div class="v">{{.R.Overview.DateRange}}</div></div>
  </div>

  {{with .R.Notices}}<h2>Notes</h2>{{range .}}<p class="note">{{.}}</p>{{end}}{{end}}

  {{if .R.CountryTops}}<h2>Country Breakdown - Top Users (Total Logins)</h2>
  {{range .R.CountryTops}}<h3>{{.Country}} - Top {{len .Users}} Users</h3>
  <table>
    <tr><th>Full Name</th><th>Division</th><th>Total Logins</th><th>Weeks Active</th></tr>
    {{range .Users}}<tr><td>{{.FullName}}</td><td>{{.Division}}</td><td>{{.TotalLogins}}</td><td>{{.WeeksActive}}</td></tr>
    {{end}}
  </table>
  {{end}}{{end}}

  {{if .Bars}}<h2>Total Logins by Country</h2>
  <table>
    {{range .Bars}}<tr><td>{{.Label}}</td><td style="width:24rem"><div class="bar" style="width: {{.Percent}}%"></div></td><td>{{.Value}}</td></tr>
    {{end}}
  </table>{{end}}

  {{if .R.TopOverall}}<h2>Top {{len .R.TopOverall}} Users Overall</h2>
  <table>
    <tr><th>#</th><th>Full Name</th><th>Country</th><th>Total Logins</th></tr>
    {{range $i, $u := .R.TopOverall}}<tr><td>{{inc $i}}</td><td>{{$u.FullName}}</td><td>{{$u.Country}}</td><td>{{$u.TotalLogins}}</td></tr>
    {{end}}
  </table>{{end}}

  {{if .R.ActivityBreakdown}}<h2>Activity Breakdown Analysis</h2>
  <table>
    <tr><th>Activity Type</th><th>Total Count</th></tr>
    {{range .R.ActivityBreakdown}}<tr><td>{{.Label}}</td><td>{{printf "%.0f" .Total}}</td></tr>
    {{end}}
  </table>{{end}}

  {{if .R.Countries}}<h2>Summary by Country</h2>
  <table>
    <tr><th>Country</th><th>Total Users</th><th>Total Logins</th><th>Avg Logins per User</th><th>Max User Logins</th><th>Avg Weeks Active</th></tr>
    {{range .R.Countries}}<tr><td>{{.Country}}</td><td>{{.Users}}</td><td>{{.TotalLogins}}</td><td>{{printf "%.2f" .AvgLoginsPerUser}}</td><td>{{.MaxUserLogins}}</td><td>{{printf "%.2f" .AvgWeeksActive}}</td></tr>
    {{end}}
  </table>{{end}}

  <h2>Weekly Summary</h2>
  <table>
    <tr><th>Week</th><th>Total Logins</th><th>Active Users</th></tr>
    {{range .R.Weekly}}<tr><td>{{.WeekPeriod}}</td><td>{{.TotalLogins}}</td><td>{{.ActiveUsers}}</td></tr>
    {{end}}
  </table>

  <h2>Key Insights</h2>
  <ul>{{range .R.Insights.Sentences}}<li>{{.}}</li>{{end}}</ul>
  <p><a href="/">Upload another file</a></p>
</body>
</html>
`

var (
	uploadTmpl = template.Must(template.New("upload").Parse(uploadHTML))
	reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(reportHTML))
)

type bar struct {
	Label   string
	Value   int64
	Percent float64
}

// HTML writes the report page.
func HTML(w io.Writer, r *domain.Report) error {
	var max int64
	for _, c := range r.CountryTotals {
		if c.TotalLogins > max {
			max = c.TotalLogins
		}
	}
	bars := make([]bar, 0, len(r.CountryTotals))
	for _, c := range r.CountryTotals {
		pct := 0.0
		if max > 0 {
			pct = float64(c.TotalLogins) / float64(max) * 100
		}
		bars = append(bars, bar{Label: c.Country, Value: c.TotalLogins, Percent: pct})
	}

	return reportTmpl.Execute(w, struct {
		R    *domain.Report
		Bars []bar
	}{R: r, Bars: bars})
}

// UploadForm writes the upload page, optionally showing the error of a
// previous attempt.
func UploadForm(w io.Writer, topN int, uploadErr error) error {
	data := struct {
		Error   string
		Hint    string
		TopN    int
		MinTopN int
		MaxTopN int
		Columns any
	}{
		TopN:    topN,
		MinTopN: domain.MinTopN,
		MaxTopN: domain.MaxTopN,
		Columns: ColumnHelp,
	}
	if uploadErr != nil {
		data.Error = "Error reading the CSV file: " + uploadErr.Error()
		data.Hint = domain.FormatHint
	}
	return uploadTmpl.Execute(w, data)
}
