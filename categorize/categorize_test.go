package categorize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/finsync"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// fakeGenerator replies with a fixed text and records the last request.
type fakeGenerator struct {
	reply  string
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.config = model, config
	f.prompt = contents[0].Parts[0].Text
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.reply, genai.RoleModel)}},
	}, nil
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CARTE X1234 12/03 FOODLES", "CARTE X0000 01/01 FOODLES"},
		{"PRLV SEPA 123456789 EDF", "PRLV SEPA 00000 EDF"},
		{"VIR 1234 LOYER", "VIR 1234 LOYER"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		wantErr bool
	}{
		{"category", "```json\n[\"Food\", \"Restaurants\"]\n```", []string{"Food", "Restaurants"}, false},
		{"surrounding blanks", "\n```json\n[\"Food\"]\n```\n", []string{"Food"}, false},
		{"drop expenses", "```json\n[\"Expenses\", \"Housing\", \"Rent\"]\n```", []string{"Housing", "Rent"}, false},
		{"drop income", "```json\n[\"Income\", \"Salary\"]\n```", []string{"Salary"}, false},
		{"empty", "```json\n[]\n```", []string{}, false},
		{"not fenced", `["Food"]`, nil, true},
		{"not strings", "```json\n[1, 2]\n```", nil, true},
		{"not json", "```json\nFood\n```", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseReply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGuesser_Guess(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n[\"Expenses\", \"Food\", \"Canteen\"]\n```"}
	g := New(gen, "", `{"Salary":[]}`, `{"Food":["Canteen"]}`)

	tx := finsync.Transaction{
		ID:                1,
		Value:             decimal.RequireFromString("-20.5"),
		OriginalWording:   "CARTE X1234 01/02 FOODLES 1234567",
		SimplifiedWording: "FOODLES",
	}
	got, err := g.Guess(context.Background(), tx)
	if err != nil {
		t.Fatalf("Guess() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Food", "Canteen"}, got); diff != "" {
		t.Errorf("Guess() mismatch (-want +got):\n%s", diff)
	}
	if gen.model != DefaultModel {
		t.Errorf("model = %q, want %q", gen.model, DefaultModel)
	}
	if gen.config.MaxOutputTokens != 1024 || *gen.config.Temperature != 0.5 {
		t.Errorf("unexpected config %+v", gen.config)
	}
	for _, want := range []string{
		`{"value":-20.5,"original_wording":"CARTE X0000 01/01 FOODLES 00000","simplified_wording":"FOODLES"}`,
		`{"Salary":[]}`,
		`{"Food":["Canteen"]}`,
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt does not contain %s:\n%s", want, gen.prompt)
		}
	}
	if strings.Contains(gen.prompt, "1234") {
		t.Errorf("prompt leaks card number:\n%s", gen.prompt)
	}
}

func TestGuesser_GuessErrors(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"generator", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"reply", &fakeGenerator{reply: "I think it is food."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.gen, "m", "{}", "{}").Guess(context.Background(), finsync.Transaction{}); err == nil {
				t.Error("Guess() error = nil, want error")
			}
		})
	}
}

func TestLoadCategories(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "income.json"), []byte(`{"Mine":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "expenses.json.example"), []byte(`{"Example":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	income, expenses, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("LoadCategories() error = %v", err)
	}
	if income != `{"Mine":[]}` {
		t.Errorf("income = %q", income)
	}
	if expenses != `{"Example":[]}` {
		t.Errorf("expenses = %q", expenses)
	}

	t.Run("defaults", func(t *testing.T) {
		income, expenses, err := LoadCategories(t.TempDir())
		if err != nil {
			t.Fatalf("LoadCategories() error = %v", err)
		}
		if !strings.Contains(income, "Salary") || !strings.Contains(expenses, "Housing") {
			t.Errorf("unexpected defaults %q %q", income, expenses)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "income.json"), []byte(`{`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := LoadCategories(dir); err == nil {
			t.Error("LoadCategories() error = nil, want error")
		}
	})
}
