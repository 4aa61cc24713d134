// Package cookie manages HTTP cookies with optional HMAC signing and AES-GCM
// encryption. Secrets must be at least 32 characters; several secrets may be
// given to rotate keys, the first one being used for new cookies.
package cookie
