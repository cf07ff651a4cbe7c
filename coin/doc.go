/*
Package coin defines the Coin type, a non negative amount of a single
denomination, and Coins, a normalized set of coins used to describe account
balances.
*/
package coin
