// Package shield classifies prime gaps by the small primes they are
// shielded from, and searches for Shield General integers.
//
// A gap g is shielded from a small prime q when modular arithmetic
// guarantees that S = p + (p+g) - 1 is never divisible by q for any
// consecutive prime pair with that gap. Each shielded prime q contributes
// a multiplicative boost of q/(q-1) to the expected rate at which S is
// itself prime, relative to the 1/ln(N) density baseline.
package shield
