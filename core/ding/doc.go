// Package ding implements Ding's reconciliation: a one-bit hint computed from
// one party's noisy value lets two parties whose values differ by a small even
// error extract the same bit.
//
// Typical use: the party holding x sends Hint(x, q) to its peer, then both
// parties call Extract on their own value with that hint.
package ding
