// Package reportes answers reservation report requests written in plain
// Spanish ("ventas de La Paz del mes pasado en excel").
//
// A request flows through four stages:
//
//	translator  free text or query parameters → engine.FilterSet
//	temporal    relative date phrases → absolute bounds
//	engine      FilterSet → predicate → single-pass aggregation → ReportResult
//	currency    USD/BOB normalisation at a configured rate
//
// Data comes from a store.Reader (CSV export or SQL database). The engine
// never calls an external service; only the optional Gemini translator
// does, and it falls back to the local interpreter on any failure.
//
// Entry points are the cmd/reportes CLI and the server package.
package reportes
