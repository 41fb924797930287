// Package conversion builds the db2json, json2db and settings commands.
//
// Each CommandBuilder resolves its options from positional arguments, flags
// and the loaded configuration, then delegates to a Converter.
package conversion
