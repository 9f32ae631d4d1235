// Package dataset models the tables uploaded in a transfer.
//
// A Table is a named set of rows. Cells are plain Go values; nil, nil
// pointers and NaN floats count as missing and render as empty strings.
// Tables are usually built in code or loaded from delimited files with
// ReadCSV / LoadCSVFile.
package dataset
