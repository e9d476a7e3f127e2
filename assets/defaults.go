package assets

import (
	_ "embed"
)

// DefaultGuardrailYAML contains the embedded default dangerous-command rules.
//
//go:embed defaults/guardrail.yaml
var DefaultGuardrailYAML []byte
