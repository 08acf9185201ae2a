package prompts

import (
	_ "embed"
)

//go:embed system_prompt.txt
var SystemPrompt string

//go:embed augmented_message.txt
var AugmentedMessage string

//go:embed summary_message.txt
var SummaryMessage string

//go:embed summary_system.txt
var SummarySystem string
