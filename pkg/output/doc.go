// Package output renders organize runs for people and for machines.
//
// Three concrete formats exist: term (lipgloss styles loaded from the
// embedded styles.yaml), text (the same lines without styling) and json
// (the full run summary). Auto picks term or text depending on whether
// the writer is a color-capable terminal and on NO_COLOR.
package output
