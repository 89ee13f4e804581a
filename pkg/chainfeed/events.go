package chainfeed

// Event kinds emitted by the chain gateway stream.
const (
	EventDeposit      = "deposit"
	EventHeroMint     = "hero_mint"
	EventHeroTransfer = "hero_transfer"
)

// Event is one message from the chain gateway.
type Event struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Address   string `json:"address,omitempty"`  // deposit recipient
	Lamports  uint64 `json:"lamports,omitempty"` // deposit amount
	HeroID    string `json:"hero_id,omitempty"`
	Owner     string `json:"owner,omitempty"` // hero owner after mint/transfer
	CreatedAt int64  `json:"created_at"`      // unix seconds
}
