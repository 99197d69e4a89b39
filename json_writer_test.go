package finsync

import (
	"encoding/json"
	"testing"

	"github.com/etnz/finsync/date"
	"github.com/shopspring/decimal"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed object", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 1)
		w.Embed(json.RawMessage(`{"c":3,"d":4}`))
		w.Embed(json.RawMessage(`{ }`))
		w.Append("b", 2)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"a":1,"c":3,"d":4,"b":2}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Optional("zero", 0)
		w.Optional("empty", []string{})
		w.Optional("nil", nil)
		w.Optional("set", []string{"x"})
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"set":["x"]}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed non object", func(t *testing.T) {
		var w jsonObjectWriter
		w.EmbedFrom([]int{1})
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("expected an error embedding an array")
		}
	})
}

func TestDB_TransactionDetail(t *testing.T) {
	db := openTestDB(t)
	if err := db.Accounts.Upsert(Account{ID: 7, Name: "Checking"}); err != nil {
		t.Fatal(err)
	}
	if err := db.Transactions.Upsert(Transaction{ID: 1, IDAccount: 7, Date: date.MustParse("2024-01-02"), Value: decimal.RequireFromString("-3.5")}); err != nil {
		t.Fatal(err)
	}
	if err := db.Extras.Upsert(TransactionExtras{ID: 1, Categories: []string{"Food"}}); err != nil {
		t.Fatal(err)
	}

	if _, ok := db.TransactionDetail(2); ok {
		t.Error("TransactionDetail(2) found a missing transaction")
	}
	d, ok := db.TransactionDetail(1)
	if !ok {
		t.Fatal("TransactionDetail(1) not found")
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json %s: %v", data, err)
	}
	if got["id"] != float64(1) || got["date"] != "2024-01-02" || got["account"] != "Checking" {
		t.Errorf("unexpected detail %s", data)
	}
	if cats, _ := got["categories"].([]any); len(cats) != 1 || cats[0] != "Food" {
		t.Errorf("categories = %v", got["categories"])
	}
	if _, ok := got["tags"]; ok {
		t.Errorf("empty tags should be omitted: %s", data)
	}
}
