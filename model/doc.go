// Package model defines the content generator abstraction consumed by every
// debate action: a single opaque prompt-to-text call. Provider adapters live
// in subpackages (openai, anthropic); MockModel supports deterministic tests.
//
// The contract is deliberately narrow: one Generate call per action, failure
// (including empty output) is fatal to the caller's current operation, and no
// retry policy is defined here.
package model
