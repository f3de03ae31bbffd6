// Package custodytest provides mocks and helpers for testing the custody
// packages: fake authenticators, test keys, handlers and decorators that
// count their calls.
package custodytest
