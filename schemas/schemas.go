// Package schemas embeds the JSON Schemas that structured model output is checked against.
package schemas

import "embed"

// KeywordsSchema is the file name of the keyword stage schema.
const KeywordsSchema = "keywords.schema.json"

//go:embed *.schema.json
var files embed.FS

// Read returns the raw content of an embedded schema file.
func Read(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
