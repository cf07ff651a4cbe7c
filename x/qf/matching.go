package qf

import (
	"math"
	"math/bits"

	"github.com/iov-one/qfund/errors"
)

// Contributions is the input of the matching computation for a single
// proposal. Each entry of PerVoter is the total contribution of one
// distinct voter.
type Contributions struct {
	ProposalID uint64
	PerVoter   []uint64
}

// Grant is the result of the matching computation for a single proposal.
type Grant struct {
	ProposalID   uint64
	Collected    uint64
	QuadraticSum uint64
	Match        uint64
}

// Payout returns the total amount the proposal receives.
func (g Grant) Payout() (uint64, error) {
	total, carry := bits.Add64(g.Collected, g.Match, 0)
	if carry != 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "payout of proposal %d", g.ProposalID)
	}
	return total, nil
}

const maxRoot = math.MaxUint32

// isqrt returns the square root of n rounded to the nearest integer. Half
// is rounded up, although an exact half cannot happen for an integer n.
func isqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	if r > maxRoot {
		r = maxRoot
	}
	for r*r > n {
		r--
	}
	for r < maxRoot && (r+1)*(r+1) <= n {
		r++
	}
	// (r + 0.5)² = r² + r + 0.25
	if n-r*r > r {
		r++
	}
	return r
}

// QuadraticSum returns (Σ sqrt(c))² of the given contributions, each
// square root rounded to the nearest integer.
func QuadraticSum(contributions []uint64) (uint64, error) {
	var sum, carry uint64
	for _, c := range contributions {
		sum, carry = bits.Add64(sum, isqrt(c), 0)
		if carry != 0 {
			return 0, errors.Wrap(errors.ErrOverflow, "sum of roots")
		}
	}
	hi, lo := bits.Mul64(sum, sum)
	if hi != 0 {
		return 0, errors.Wrap(errors.ErrOverflow, "quadratic sum")
	}
	return lo, nil
}

// CalculateCLR distributes the matching pool between the proposals using
// capital constrained liberal radicalism.
//
// The matching pool is the budget minus all collected contributions. Each
// proposal receives floor(q · pool / Q) where q is its quadratic sum and Q
// is the sum of all quadratic sums. The rounding remainder, or the whole
// pool when no votes were cast, is returned as the leftover.
//
// The result is a pure function of the input.
func CalculateCLR(budget uint64, proposals []Contributions) ([]Grant, uint64, error) {
	grants := make([]Grant, len(proposals))
	var collected, total uint64
	for i, p := range proposals {
		g := Grant{ProposalID: p.ProposalID}
		var carry uint64
		for _, c := range p.PerVoter {
			g.Collected, carry = bits.Add64(g.Collected, c, 0)
			if carry != 0 {
				return nil, 0, errors.Wrapf(errors.ErrOverflow, "collected funds of proposal %d", p.ProposalID)
			}
		}
		q, err := QuadraticSum(p.PerVoter)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "proposal %d", p.ProposalID)
		}
		g.QuadraticSum = q

		if collected, carry = bits.Add64(collected, g.Collected, 0); carry != 0 {
			return nil, 0, errors.Wrap(errors.ErrOverflow, "total collected funds")
		}
		if total, carry = bits.Add64(total, q, 0); carry != 0 {
			return nil, 0, errors.Wrap(errors.ErrOverflow, "total quadratic sum")
		}
		grants[i] = g
	}

	if collected > budget {
		return nil, 0, errors.Wrapf(errors.ErrOverflow, "collected %d exceeds budget %d", collected, budget)
	}
	pool := budget - collected
	if total == 0 {
		return grants, pool, nil
	}

	var matched uint64
	for i := range grants {
		hi, lo := bits.Mul64(grants[i].QuadraticSum, pool)
		// q <= Q so the quotient always fits.
		match, _ := bits.Div64(hi, lo, total)
		grants[i].Match = match
		matched += match
	}
	return grants, pool - matched, nil
}
