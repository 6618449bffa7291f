// Package exporter writes analysis results to disk or to any io.Writer.
//
// CSVWriter: core CSV writing with UTF-8 BOM for Excel compatibility.
// Profile CSVs are written through it, one file per label.
//
// ExportContracts: the enriched contract table as ';'-separated CSV,
// marshalled with gocsv. Undefined ratios are written as empty cells.
//
// WorkbookExporter: a single XLSX workbook with a "Resumo" sheet, one
// "Perfil <label>" sheet per profile report and a "Contratos" sheet.
//
// ReportExporter bundles all three for the report command:
//
//	files, err := exporter.NewReportExporter(paths).Export(report)
package exporter
