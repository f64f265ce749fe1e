package reconcile

import (
	"github.com/mateoavila/nft-transfers/internal/transfers"
)

// ItemQuery is a predicate set over the order_items table. It is built by
// the impact resolver and executed by the repository, which keeps the
// resolver pure.
type ItemQuery struct {
	ChainID           string
	CollectionAddress string
	TokenID           string
	IsSellOrder       bool

	// MakerIn restricts to items whose maker is one of the addresses.
	MakerIn []string
	// TakerAddress restricts to items targeting the address. Empty means
	// no taker filter.
	TakerAddress string
}

// ImpactQueries holds the two predicate sets a transfer can touch.
type ImpactQueries struct {
	Offers   ItemQuery
	Listings ItemQuery
}

// ImpactedItemQueries builds the predicates locating every order item a
// transfer can affect.
//
// Listings are impacted only when the maker's holdings changed, which can
// happen on either side of the transfer. Offers cannot be narrowed when the
// owner-inherits-offers policy is on: every open offer's taker must be
// re-pointed at the new holder, so the full offer set for the token is
// fetched. With the policy off, only offers whose taker just lost the token
// are affected.
func ImpactedItemQueries(t transfers.Transfer, ownerInheritsOffers bool) ImpactQueries {
	base := ItemQuery{
		ChainID:           t.ChainID,
		CollectionAddress: t.CollectionAddr,
		TokenID:           t.TokenID,
	}

	offers := base
	offers.IsSellOrder = false
	if !ownerInheritsOffers {
		offers.TakerAddress = t.From
	}

	listings := base
	listings.IsSellOrder = true
	listings.MakerIn = []string{t.To, t.From}

	return ImpactQueries{Offers: offers, Listings: listings}
}
