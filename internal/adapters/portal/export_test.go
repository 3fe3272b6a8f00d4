package portal

// MaxBodyBytesExported exposes the response size cap for tests.
const MaxBodyBytesExported = maxBodyBytes
