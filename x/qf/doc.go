/*
Package qf implements a single quadratic funding round.

A round is instantiated with a matching budget. During the proposal period
anyone allowed by the optional whitelist can submit proposals. During the
voting period voters attach funds to proposals. Once voting is closed the
admin triggers the distribution: every proposal receives the funds it
collected plus a share of the remaining pool proportional to its quadratic
sum

	(Σ sqrt(contribution of each voter))²

and the rounding remainder is sent to the leftover address. The
distribution runs once, after which the round is terminal.

The matching computation is a pure function of the stored proposals and
votes, see CalculateCLR and BuildPlan. Funds are moved by a PayoutExecutor.
*/
package qf
