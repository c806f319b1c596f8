// Package writers serializes parsed records for the view command.
//
// Each output format registers a Factory that starts one goroutine reading
// records from a channel. Parsers stay free of presentation knowledge:
// they produce record values and the caller forwards them here.
package writers
