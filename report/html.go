package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	sprig "github.com/go-task/slim-sprig/v3"

	"baseliner/misc"
)

//go:embed report.html.tmpl
var htmlTemplate string

var htmlReport = template.Must(template.New("report").Funcs(sprig.FuncMap()).Parse(htmlTemplate))

// HTML writes static single page report.
func HTML(w io.Writer, d ExportData) error {
	values := struct {
		ExportData
		App     string
		Version string
	}{
		ExportData: d,
		App:        misc.GetAppName(),
		Version:    misc.GetVersion(),
	}
	if err := htmlReport.Execute(w, values); err != nil {
		return fmt.Errorf("unable to render html report: %w", err)
	}
	return nil
}
