// Package rules decides which destination folder a downloaded file belongs in.
//
// A RuleSet holds two kinds of rules, evaluated in a fixed order:
//
//   - keyword rules match a case-insensitive substring of the file name and are
//     tried in declaration order, the first match wins
//   - extension rules map a normalized extension ("pdf", no dot, lower case)
//     to a label and are consulted only when no keyword matched
//
// A file matching neither gets the fallback label, "Misc" unless configured.
//
// Rule sets also carry ignore patterns, globs matched against the base name,
// for files that must never be moved (partial downloads, OS metadata).
//
// # Configuration
//
// Rule tables come from pkg/config:
//
//	fallback = "Misc"
//	ignore = [".DS_Store", "*.crdownload"]
//
//	[[keywords]]
//	keyword = "invoice"
//	label = "Invoices"
//
//	[extensions]
//	pdf = "PDFs"
//	png = "Images"
//
// A RuleSet is immutable once built and safe for concurrent use.
package rules
