// Package frontmonth decides whether a bar record belongs to the front-month
// contract of a quarterly-expiry futures product.
//
// A record is accepted when the contract encoded in its symbol (month code
// plus single year digit, e.g. "NQH9") equals the contract that is front on
// the record's calendar date. Contracts expire on the third Friday of
// March, June, September and December; the expiration day itself still
// belongs to the expiring contract.
//
// All functions are pure and safe for concurrent use.
package frontmonth
