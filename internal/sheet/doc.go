// Package sheet models the first worksheet of a spreadsheet as rows of cells
// backed by a shared-string pool. It reads and writes cell text through that
// pool and persists changes through a Store, of which the xlsx store is the
// production one.
package sheet
