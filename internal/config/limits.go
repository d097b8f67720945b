package config

const (
	// MaxSequenceNameLength is the maximum length for sequence names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxSequenceNameLength = 255

	// MaxBlockNameLength is the maximum length for block names.
	MaxBlockNameLength = 255

	// MaxVariableNameLength is the maximum length for variable names.
	// Variable names double as template identifiers, so they're also
	// constrained to identifier-safe characters at the validation layer.
	MaxVariableNameLength = 128

	// MaxGlobalListNameLength is the maximum length for global list names.
	MaxGlobalListNameLength = 128

	// MaxGlobalListItemLength is the maximum length for a single global
	// list item value.
	MaxGlobalListItemLength = 10_000

	// MaxPromptTemplateLength bounds a block's prompt template body.
	// Generous limit; real constraint is usually the model's context
	// window, enforced by the provider, not here.
	MaxPromptTemplateLength = 100_000

	// MaxOutputKeyLength is the maximum length for a discretization
	// output key name.
	MaxOutputKeyLength = 128

	// MaxBlocksPerSequence is the block-count ceiling for one sequence.
	// No code reads it: block creation and context assembly accept any
	// number of blocks.
	MaxBlocksPerSequence = 500

	// MaxListFanOut bounds SingleList/MultiList fan-out so one run can't
	// spawn an unbounded number of concurrent block executions.
	MaxListFanOut = 200

	// DefaultMaxTokens bounds a single LLM completion call absent any
	// per-block override.
	DefaultMaxTokens = 2048
)
