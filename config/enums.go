package config

//go:generate go tool go-enum --marshal --names --mustparse --nocase

// Specification of requested export type.
// ENUM(json, csv, html, yaml, junit)
type ExportFormat string

// Ext returns file extension for exported unit reports.
func (f ExportFormat) Ext() string {
	switch f {
	case ExportFormatJson:
		return ".json"
	case ExportFormatCsv:
		return ".csv"
	case ExportFormatHtml:
		return ".html"
	case ExportFormatYaml:
		return ".yaml"
	case ExportFormatJunit:
		return ".junit.xml"
	default:
		// this should never happen
		panic("unsupported export format requested")
	}
}
