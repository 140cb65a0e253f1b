package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of completion providers and models.
//
//go:embed models.json
var ModelsData []byte

// TeamData holds the built-in persona roster.
//
//go:embed team.json
var TeamData []byte

// DemoRepliesData holds the canned replies used when no credential is configured.
//
//go:embed demo_replies.json
var DemoRepliesData []byte
