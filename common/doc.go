// Package common provides ready-made value object classes for frequently
// used primitives:
//
//   - PositiveInt32: integers in (0, 2147483647]
//   - Email: RFC 5322 addresses, lower-cased
//   - UUID: RFC 4122 identifiers in canonical form
//   - URL: absolute http, https, ftp or ftps URLs
//   - Phone: E.164 phone numbers
//   - Password: sensitive secrets with a minimum strength
//   - Amount: non-negative decimal amounts
//   - Timestamp: instants normalized to UTC
//   - Labels: small string to string mappings
//   - Media: images and PDF documents, checked by content type
//
// Every class validates through go-playground/validator tags, so its schema
// carries the same constraints:
//
//	email, err := common.Email.New("User@Example.com")
//	// email.Raw() == "user@example.com"
package common
