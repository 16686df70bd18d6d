package shop

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/hollyoak/plantshop/internal/affinity"
	"github.com/hollyoak/plantshop/internal/catalog"
	"github.com/hollyoak/plantshop/internal/customer"
	"github.com/hollyoak/plantshop/internal/entropy"
	"github.com/hollyoak/plantshop/internal/scoring"
)

// Sale probability model. A customer's chance to buy starts at a base
// receptiveness, scales with the fit score, picks up a flat rapport bonus
// from the sales dialogue, and loses ground to price sensitivity.
const (
	BaseReceptiveness   = 0.25
	FitWeight           = 0.6
	DialogueBonus       = 0.05
	PriceSensitivityCap = 0.45
	ListPriceDivisor    = 110.0
	MarkupDivisor       = 40.0
)

// SaleEvent records the outcome of one offer, successful or not.
type SaleEvent struct {
	ID       string    `json:"id"`
	ItemID   string    `json:"item_id"`
	Price    float64   `json:"price"`
	Success  bool      `json:"success"`
	FitScore float64   `json:"fit_score"`
	At       time.Time `json:"at"`
}

// Candidate is a scored catalog item annotated with the stock remaining at
// the moment of ranking — a snapshot, not a live view.
type Candidate struct {
	scoring.ScoredCandidate
	Stock int `json:"stock"`
}

// Session owns all mutable shop state for one play session: the ledger,
// the cash balance, the transaction log, and the seeded random stream.
// Single logical flow only; callers serialize offers.
type Session struct {
	ID              string
	Catalog         []catalog.Item
	PlayerHardiness float64

	ledger *Ledger
	log    *TransactionLog
	cash   float64
	rng    entropy.Source
	draws  int
}

// NewSession creates a session over an immutable catalog. playerHardiness
// is clamped here, once, so scoring never has to re-validate it.
func NewSession(items []catalog.Item, startingStock int, playerHardiness float64, rng entropy.Source) *Session {
	return &Session{
		ID:              uuid.NewString(),
		Catalog:         items,
		PlayerHardiness: affinity.Clamp01(playerHardiness),
		ledger:          NewLedger(items, startingStock),
		log:             &TransactionLog{},
		rng:             rng,
	}
}

// Ledger exposes the session's stock ledger.
func (s *Session) Ledger() *Ledger {
	return s.ledger
}

// CashBalance returns the cash taken in so far this session.
func (s *Session) CashBalance() float64 {
	return s.cash
}

// RecentLog returns the transaction log, oldest entry first.
func (s *Session) RecentLog() []string {
	return s.log.Entries()
}

// Item looks up a catalog item by id.
func (s *Session) Item(id string) *catalog.Item {
	for i := range s.Catalog {
		if s.Catalog[i].ID == id {
			return &s.Catalog[i]
		}
	}
	return nil
}

// Matches ranks the catalog against a need and annotates each of the top k
// candidates with its remaining stock.
func (s *Session) Matches(need *customer.NeedProfile, k int) []Candidate {
	scored := scoring.TopMatches(s.Catalog, need, k, s.PlayerHardiness)
	out := make([]Candidate, len(scored))
	for i, sc := range scored {
		out[i] = Candidate{
			ScoredCandidate: sc,
			Stock:           s.ledger.StockOf(sc.Item.ID),
		}
	}
	return out
}

// Offer resolves a sale at the item's list price.
func (s *Session) Offer(item *catalog.Item, fitScore float64) SaleEvent {
	return s.OfferAt(item, fitScore, item.ListPrice)
}

// OfferAt resolves a probabilistic sale at an explicit price, crediting
// cash and consuming stock on success and logging the outcome either way.
// Callers gate on StockOf before offering; a depleted item is not
// re-checked here.
func (s *Session) OfferAt(item *catalog.Item, fitScore float64, price float64) SaleEvent {
	probability := SaleProbability(item, fitScore)
	u := s.rng.Float64()
	s.draws++
	success := u < probability

	if success {
		s.cash += price
		s.ledger.Consume(item.ID)
		s.log.Append(fmt.Sprintf("sold %s for $%s", item.Name, humanize.CommafWithDigits(price, 2)))
	} else {
		s.log.Append(fmt.Sprintf("missed a sale on %s at $%s", item.Name, humanize.CommafWithDigits(price, 2)))
	}

	slog.Debug("offer resolved",
		"item", item.ID,
		"fit", fmt.Sprintf("%.3f", fitScore),
		"probability", fmt.Sprintf("%.3f", probability),
		"success", success,
		"cash", s.cash,
	)

	return SaleEvent{
		ID:       uuid.NewString(),
		ItemID:   item.ID,
		Price:    price,
		Success:  success,
		FitScore: fitScore,
		At:       time.Now().UTC(),
	}
}

// SaleProbability computes the chance an offer lands, from the fit score
// and the item's pricing. Exposed so the presentation layer can show odds.
func SaleProbability(item *catalog.Item, fitScore float64) float64 {
	markup := item.ListPrice - item.BaseCost
	if markup < 0 {
		markup = 0
	}
	sensitivity := item.ListPrice/ListPriceDivisor + markup/MarkupDivisor
	if sensitivity > PriceSensitivityCap {
		sensitivity = PriceSensitivityCap
	}
	return affinity.Clamp01(BaseReceptiveness + fitScore*FitWeight + DialogueBonus - sensitivity)
}

// Draws returns how many random draws the session has consumed. Persisted
// so a restored session can fast-forward its stream to the same position.
func (s *Session) Draws() int {
	return s.draws
}

// RestoreCash overwrites the cash balance when reloading a persisted session.
func (s *Session) RestoreCash(cash float64) {
	s.cash = cash
}

// RestoreDraws fast-forwards the random stream past draws already consumed
// by a persisted session.
func (s *Session) RestoreDraws(draws int) {
	for i := 0; i < draws; i++ {
		s.rng.Float64()
	}
	s.draws = draws
}

// RestoreLog replays persisted log lines in order.
func (s *Session) RestoreLog(lines []string) {
	for _, line := range lines {
		s.log.Append(line)
	}
}
