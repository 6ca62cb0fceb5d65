// Package timezone provides timezone utilities for the application.
//
// Business hours, past-date checks and calendar events are all evaluated in
// the application timezone, so every wall-clock conversion goes through here.
//
// Usage Examples:
//
//  1. Current time and day:
//     now := timezone.Now()
//     today := timezone.Today()
//
//  2. Parsing a requested day:
//     day, err := timezone.Parse("2006-01-02", "2024-01-01")
//
//  3. Day-granularity comparisons:
//     if timezone.IsPastDay(day) { ... }
//
// The timezone is configured via the APP_TIMEZONE environment variable
// and is automatically initialized when the package is imported.
// Use standard IANA timezone database names such as "Europe/Berlin".
package timezone
