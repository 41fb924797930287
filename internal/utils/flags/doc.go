// Package flags provides shared pflag helpers for command definitions.
package flags
