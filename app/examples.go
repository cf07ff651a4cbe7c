package app

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/commands"
	"github.com/iov-one/qfund/x/cash"
	"github.com/iov-one/qfund/x/qf"
	"github.com/iov-one/qfund/x/sigs"
	"golang.org/x/crypto/ed25519"
)

// The keys are fixed so that the output is the same on every run. They are
// not secure at all.
var (
	adminKey = makePrivKey("1234567890")
	voterKey = makePrivKey("F00BA411")
	fund     = sigs.PubKeyCondition(makePrivKey("00CAFE00F00D").Public().(ed25519.PublicKey)).Address()
)

// makePrivKey repeats the string as long as needed to get 64 digits, then
// parses it as hex and uses the first half as the key seed.
func makePrivKey(seed string) ed25519.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return ed25519.NewKeyFromSeed(bin[:ed25519.SeedSize])
}

func keyAddress(k ed25519.PrivateKey) qfund.Address {
	return sigs.PubKeyCondition(k.Public().(ed25519.PublicKey)).Address()
}

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	admin := keyAddress(adminKey)
	voter := keyAddress(voterKey)

	instantiate := &qf.InstantiateMsg{
		Admin:          admin,
		LeftoverAddr:   admin,
		ProposalPeriod: qf.AtHeight(1000),
		VotingPeriod:   qf.AtTime(qfund.UnixTime(1600000000)),
		BudgetDenom:    "ujunox",
		Algorithm:      &qf.Algorithm{Kind: qf.CapitalConstrainedLiberalRadicalism},
	}
	create := &qf.CreateProposalMsg{
		Title:       "Community garden",
		Description: "Plant trees along the river",
		FundAddress: fund,
	}
	vote := &qf.VoteProposalMsg{ProposalID: 1}
	send := &cash.SendMsg{
		Source:      voter,
		Destination: fund,
		Amount:      coin.NewCoinp(250, "ujunox"),
		Memo:        "thanks",
	}

	voteTx := &Tx{
		Funds:           coin.NewCoinp(100, "ujunox"),
		VoteProposalMsg: vote,
	}
	sig, err := sigs.SignTx(voterKey, voteTx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	voteTx.Signatures = []*sigs.StdSignature{sig}

	proposal := &qf.Proposal{
		ID:             1,
		Title:          create.Title,
		Description:    create.Description,
		FundAddress:    fund,
		CollectedFunds: coin.NewCoinp(100, "ujunox"),
	}
	wallet := &cash.Set{
		Coins: []*coin.Coin{coin.NewCoinp(5000, "ujunox")},
	}

	return []commands.Example{
		{Filename: "instantiate_msg", Obj: instantiate},
		{Filename: "create_proposal_msg", Obj: create},
		{Filename: "vote_proposal_msg", Obj: vote},
		{Filename: "send_msg", Obj: send},
		{Filename: "vote_tx", Obj: voteTx},
		{Filename: "proposal", Obj: proposal},
		{Filename: "wallet", Obj: wallet},
	}
}
