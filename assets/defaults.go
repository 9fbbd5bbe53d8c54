package assets

import (
	_ "embed"
)

// DefaultLimitsYAML contains the embedded default per-provider rate limits.
//
//go:embed defaults/limits.yaml
var DefaultLimitsYAML []byte

// DefaultEnhancementTemplate contains the embedded prompt-enhancement
// template with its control-panel placeholders.
//
//go:embed defaults/enhance_template.txt
var DefaultEnhancementTemplate string
