// Package sanitizer normalizes free-form customer input before validation and
// storage.
//
// All functions are idempotent. Invalid input is never rejected here; a value
// that cannot be normalized is returned trimmed so validation can decide.
//
// Normalization includes:
//   - Names and free text: collapse whitespace, trim
//   - Emails: trim, lowercase
//   - Phone numbers: E.164 when the number parses as valid (US default region),
//     otherwise the trimmed input
package sanitizer
