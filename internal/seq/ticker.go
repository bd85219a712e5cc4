package seq

import "fmt"

// DefaultSymbols are the assets shown in the hero marquee.
var DefaultSymbols = []string{"BTC", "ETH", "SOL", "USDC", "MATIC", "LINK", "AVAX", "DOT"}

// Ticker is one marquee tile.
type Ticker struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
}

// PriceLabel formats the price as "$1014.23".
func (t Ticker) PriceLabel() string {
	return fmt.Sprintf("$%.2f", t.Price)
}

// ChangeLabel formats the change as "+0.9%" or "-0.9%".
func (t Ticker) ChangeLabel() string {
	return fmt.Sprintf("%+.1f%%", t.ChangePct)
}

// Up reports whether the change is positive.
func (t Ticker) Up() bool {
	return t.ChangePct >= 0
}

// Tickers lays out the marquee: the symbol list twice so the track can loop.
// Prices and changes depend only on the tile index.
func Tickers(symbols []string) []Ticker {
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	out := make([]Ticker, 0, 2*len(symbols))
	for i := 0; i < 2*len(symbols); i++ {
		t := Ticker{
			Symbol: symbols[i%len(symbols)],
			Price:  1000 + float64(i)*14.23,
		}
		if i%2 == 1 {
			t.ChangePct = -(0.8 + float64(i%9)/10)
		} else {
			t.ChangePct = 0.9 + float64(i%7)/10
		}
		out = append(out, t)
	}
	return out
}
