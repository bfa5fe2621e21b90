// Package utils provides common conversion helpers shared by the loaders.
// Values coming from SQL drivers and decoded config files are turned into
// the plain strings a table cell holds.
package utils
