package prompts

import "embed"

//go:embed *.yaml
var files embed.FS
