// Package diag carries diagnostics produced while resolving fragments and
// analyzing programs. Diagnostics accumulate in capped Bags; phases report
// through the Reporter interface so sinks can be swapped without touching
// resolution code.
package diag
