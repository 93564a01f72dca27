// Package render substitutes bracketed placeholder tokens in newsletter
// subjects and bodies.
//
// Substitution is a single pass over the template: values inserted for one
// token are never scanned for further tokens, so rendering the output again
// with the same context is a no-op. Tokens missing from a Context are left
// in place verbatim.
package render
