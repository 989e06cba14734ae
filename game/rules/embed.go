package rules

import "embed"

// dataFS embeds the JSON rule data of this directory.
//
//go:embed *.json
var dataFS embed.FS
