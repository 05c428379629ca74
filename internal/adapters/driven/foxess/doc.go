// Package foxess implements driven.InverterHistory against the FoxESS Cloud
// open API.
//
// Every request is signed with the API key: the signature is the MD5 digest
// of the request path, the key and a millisecond timestamp joined by the
// literal characters `\r\n`. Requests are throttled proactively because the
// cloud rejects bursts with errno 40400.
package foxess
