package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"rate": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"inc":  func(i int) int { return i + 1 },
	"truncate": func(s string, n int) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n]) + "…"
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1f2933; margin: 40px; }
  h1 { font-size: 22px; margin-bottom: 4px; }
  .window { color: #616e7c; font-size: 13px; margin-bottom: 24px; }
  table { border-collapse: collapse; width: 100%; margin-bottom: 28px; }
  th, td { border: 1px solid #d3dce6; padding: 6px 10px; font-size: 12px; text-align: left; }
  th { background: #f0f4f8; }
  .totals td { font-weight: bold; }
</style>
</head>
<body>
<h1>Engagement Report</h1>
<div class="window">{{.From.Format "Jan 2, 2006"}} – {{.To.Format "Jan 2, 2006"}} ({{.WindowDays}} days)</div>

<h2>Totals</h2>
<table>
  <tr><th>Posts</th><th>Views</th><th>Likes</th><th>Shares</th><th>Comments</th><th>Engagement rate</th></tr>
  <tr class="totals">
    <td>{{.TotalPosts}}</td><td>{{.TotalViews}}</td><td>{{.TotalLikes}}</td>
    <td>{{.TotalShares}}</td><td>{{.TotalComments}}</td><td>{{rate .EngagementRate}}</td>
  </tr>
</table>

<h2>Platforms</h2>
<table>
  <tr><th>Platform</th><th>Posts</th><th>Views</th><th>Likes</th><th>Shares</th><th>Comments</th><th>Engagement rate</th></tr>
  {{range .Platforms}}
  <tr>
    <td>{{.Label}}</td><td>{{.Posts}}</td><td>{{.Views}}</td><td>{{.Likes}}</td>
    <td>{{.Shares}}</td><td>{{.Comments}}</td><td>{{rate .EngagementRate}}</td>
  </tr>
  {{end}}
</table>

<h2>Top posts</h2>
<table>
  <tr><th>#</th><th>Platform</th><th>Content</th><th>Views</th><th>Engagement</th><th>Rate</th></tr>
  {{range $i, $p := .TopPosts}}
  <tr>
    <td>{{inc $i}}</td><td>{{$p.Platform}}</td><td>{{truncate $p.Content 80}}</td>
    <td>{{$p.Views}}</td><td>{{$p.Engagement}}</td><td>{{rate $p.EngagementRate}}</td>
  </tr>
  {{end}}
</table>

<h2>Connected accounts</h2>
<table>
  <tr><th>Platform</th><th>Account</th><th>Connected</th></tr>
  {{range .Accounts}}
  <tr><td>{{.Platform}}</td><td>{{.AccountName}}</td><td>{{.ConnectedAt.Format "Jan 2, 2006"}}</td></tr>
  {{end}}
</table>
</body>
</html>`))

func renderHTML(summary *Summary) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, summary); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderCSV(summary *Summary) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"section", "platform", "posts", "views", "likes", "shares", "comments", "engagement_rate"},
		{
			"totals", "all",
			strconv.Itoa(summary.TotalPosts),
			strconv.FormatInt(summary.TotalViews, 10),
			strconv.FormatInt(summary.TotalLikes, 10),
			strconv.FormatInt(summary.TotalShares, 10),
			strconv.FormatInt(summary.TotalComments, 10),
			formatRate(summary.EngagementRate),
		},
	}
	for _, p := range summary.Platforms {
		records = append(records, []string{
			"platform", p.Platform,
			strconv.Itoa(p.Posts),
			strconv.FormatInt(p.Views, 10),
			strconv.FormatInt(p.Likes, 10),
			strconv.FormatInt(p.Shares, 10),
			strconv.FormatInt(p.Comments, 10),
			formatRate(p.EngagementRate),
		})
	}
	for _, p := range summary.TopPosts {
		records = append(records, []string{
			"top_post", p.Platform,
			"1",
			strconv.FormatInt(p.Views, 10),
			strconv.FormatInt(p.Likes, 10),
			strconv.FormatInt(p.Shares, 10),
			strconv.FormatInt(p.Comments, 10),
			formatRate(p.EngagementRate),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	w.Flush()
	return buf.String(), w.Error()
}

func formatRate(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
