// Package file provides a DataSource which reads JSON Lines documents from files on
// disk. Each file becomes an index named after the file, so that index patterns
// select files, and a single mapping and field capabilities file describe them all.
package file
