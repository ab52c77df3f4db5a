// Package archive keeps timestamped copies of spreadsheets before they are
// modified in place.
package archive
