/*
Package cash implements the wallets of the application: balances of coins
kept per address, transfers between them and minting at genesis.

Other extensions move funds through the Controller interface; the round
escrow of the qf extension is a regular wallet owned by a condition.
*/
package cash
