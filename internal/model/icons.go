package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconPriorityHigh = "¹" // Highest priority (machine scope, first entry)
	IconPriorityLow  = "¶" // Lowest priority
	IconDuplicate    = "≈" // Almost equal (duplicate after normalization)
	IconMissing      = "✗" // Thin X (missing)
	IconOK           = " " // Space (OK - no icon to reduce noise)
	IconUser         = "◆" // Diamond for user-scope entries
)
