// Package catalog implements the Ticker Catalog component.
//
// The catalog is the fixed, ordered set of symbols the relay monitors. It is
// built once at process start from configuration and is read-only afterward,
// so it is safe to share by reference across goroutines.
package catalog
