package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const tickerJSON = `{"data":[
  {"s":"btc-usd","n":"Bitcoin USD"},
  {"s":"AAPL","n":"Apple Inc."},
  {"s":"TSLA","n":"Tesla, Inc."},
  {"s":" ","n":"blank"},
  {"s":"aapl","n":"duplicate"}
]}`

func writeTickers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ticker.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write ticker file: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	c, err := Load(context.Background(), JSONSource{Path: writeTickers(t, tickerJSON)}, "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	want := []string{"BTC-USD", "AAPL", "TSLA"}
	for i, tk := range c.All() {
		if tk.Symbol != want[i] {
			t.Errorf("All()[%d].Symbol = %q, want %q", i, tk.Symbol, want[i])
		}
	}
	if c.Default() != "AAPL" {
		t.Errorf("Default() = %q, want second entry AAPL", c.Default())
	}

	tk, ok := c.Lookup("aapl")
	if !ok || tk.Name != "Apple Inc." {
		t.Errorf("Lookup(aapl) = %+v, %v", tk, ok)
	}
	if _, ok := c.Lookup("MSFT"); ok {
		t.Error("Lookup(MSFT) found an entry, want none")
	}
}

func TestNewDefaultSymbol(t *testing.T) {
	tickers := []Ticker{{Symbol: "AAPL"}, {Symbol: "MSFT"}}

	tests := []struct {
		name    string
		tickers []Ticker
		def     string
		want    string
		wantErr bool
	}{
		{"configured", tickers, "msft", "MSFT", false},
		{"second entry", tickers, "", "MSFT", false},
		{"single entry", tickers[:1], "", "AAPL", false},
		{"unknown", tickers, "GOOG", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.tickers, tt.def)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() returned error: %v", err)
			}
			if c.Default() != tt.want {
				t.Errorf("Default() = %q, want %q", c.Default(), tt.want)
			}
		})
	}
}

func TestNewEmpty(t *testing.T) {
	if _, err := New([]Ticker{{Symbol: ""}}, ""); !errors.Is(err, ErrEmpty) {
		t.Errorf("New() error = %v, want ErrEmpty", err)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := New([]Ticker{{Symbol: "AAPL"}, {Symbol: "MSFT"}}, "")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	all := c.All()
	all[0].Symbol = "HACK"
	if c.All()[0].Symbol != "AAPL" {
		t.Error("mutating All() result changed the catalog")
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"data":`)); err == nil {
		t.Error("ParseJSON() = nil error, want error")
	}
}

func TestSQLiteStoreSeedsOnce(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	seed := JSONSource{Path: writeTickers(t, tickerJSON)}

	store, err := OpenSQLite(dbPath, seed)
	if err != nil {
		t.Fatalf("OpenSQLite() returned error: %v", err)
	}
	tickers, err := store.Tickers(ctx)
	if err != nil {
		t.Fatalf("Tickers() returned error: %v", err)
	}
	// raw rows: blank symbol kept, duplicate "aapl" differs in case so both stored
	if len(tickers) != 5 {
		t.Fatalf("Tickers() returned %d rows, want 5", len(tickers))
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	// Reopen with a seed that would fail; the table is already populated.
	store, err = OpenSQLite(dbPath, JSONSource{Path: filepath.Join(t.TempDir(), "missing.json")})
	if err != nil {
		t.Fatalf("OpenSQLite() returned error: %v", err)
	}
	defer store.Close()

	c, err := Load(ctx, store, "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if c.Len() != 3 || c.Default() != "AAPL" {
		t.Errorf("catalog = %d entries, default %q; want 3, AAPL", c.Len(), c.Default())
	}
}

func TestSQLiteStoreReplace(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"), nil)
	if err != nil {
		t.Fatalf("OpenSQLite() returned error: %v", err)
	}
	defer store.Close()

	if err := store.Replace(ctx, []Ticker{{Symbol: "SPY", Name: "SPDR S&P 500"}, {Symbol: "QQQ"}}); err != nil {
		t.Fatalf("Replace() returned error: %v", err)
	}
	tickers, err := store.Tickers(ctx)
	if err != nil {
		t.Fatalf("Tickers() returned error: %v", err)
	}
	if len(tickers) != 2 || tickers[0].Symbol != "SPY" || tickers[1].Symbol != "QQQ" {
		t.Errorf("Tickers() = %+v", tickers)
	}
}
