// Package categorize guesses the category of a bank transaction with a
// generative model.
package categorize

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/etnz/finsync"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemma-3-27b-it"

//go:embed defaults/*.json
var defaults embed.FS

// Generator generates content from a model. *genai.Models implements it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Guesser guesses transaction categories among a fixed set of income and
// expenses categories.
type Guesser struct {
	gen      Generator
	model    string
	income   string // JSON categories definition
	expenses string // JSON categories definition
}

// New returns a Guesser asking model through gen. income and expenses are
// JSON documents describing the categories and their subcategories.
func New(gen Generator, model, income, expenses string) *Guesser {
	if model == "" {
		model = DefaultModel
	}
	return &Guesser{gen: gen, model: model, income: income, expenses: expenses}
}

// LoadCategories reads income.json and expenses.json from dir.
//
// Each file falls back to its ".example" sibling, then to the built-in
// categories.
func LoadCategories(dir string) (income, expenses string, err error) {
	if income, err = loadCategory(dir, "income.json"); err != nil {
		return "", "", err
	}
	if expenses, err = loadCategory(dir, "expenses.json"); err != nil {
		return "", "", err
	}
	return income, expenses, nil
}

func loadCategory(dir, name string) (string, error) {
	for _, file := range []string{name, name + ".example"} {
		if dir == "" {
			break
		}
		data, err := os.ReadFile(filepath.Join(dir, file))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("cannot read categories: %w", err)
		}
		if !json.Valid(data) {
			return "", fmt.Errorf("invalid categories in %q", filepath.Join(dir, file))
		}
		return string(data), nil
	}
	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		return "", fmt.Errorf("cannot read default categories: %w", err)
	}
	return string(data), nil
}

// sensitive matches parts of a wording that must not leave the machine.
var sensitive = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`CARTE X\d{4}`), "CARTE X0000"}, // card number
	{regexp.MustCompile(`\d{5,}`), "00000"},             // numbers
	{regexp.MustCompile(`\d{2}/\d{2}`), "01/01"},        // date
}

// Sanitize masks card numbers, long numbers and dates in a wording.
func Sanitize(s string) string {
	for _, r := range sensitive {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// transaction is what the model sees of a transaction.
type transaction struct {
	Value             json.Number `json:"value"`
	OriginalWording   string      `json:"original_wording"`
	SimplifiedWording string      `json:"simplified_wording"`
}

// Prompt returns the prompt asking the category of tx.
func (g *Guesser) Prompt(tx finsync.Transaction) (string, error) {
	in, err := json.Marshal(transaction{
		Value:             json.Number(tx.Value.String()),
		OriginalWording:   Sanitize(tx.OriginalWording),
		SimplifiedWording: Sanitize(tx.SimplifiedWording),
	})
	if err != nil {
		return "", fmt.Errorf("cannot encode transaction: %w", err)
	}
	r := strings.NewReplacer(
		"{TRANSACTION_JSON}", string(in),
		"{INCOME_JSON}", g.income,
		"{EXPENSES_JSON}", g.expenses,
	)
	return r.Replace(prompt), nil
}

// Guess returns the category, then optionally the subcategory, of tx.
func (g *Guesser) Guess(ctx context.Context, tx finsync.Transaction) ([]string, error) {
	p, err := g.Prompt(tx)
	if err != nil {
		return nil, err
	}
	log.Printf("guess-category transaction=%d model=%q", tx.ID, g.model)
	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(p), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.5),
		TopK:             genai.Ptr[float32](64),
		TopP:             genai.Ptr[float32](0.98),
		MaxOutputTokens:  1024,
		ResponseMIMEType: "text/plain",
	})
	if err != nil {
		return nil, fmt.Errorf("guess error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("guess error: no response from %s", g.model)
	}
	categories, err := ParseReply(resp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, fmt.Errorf("guess error: %w", err)
	}
	log.Printf("guessed-category transaction=%d categories=%q", tx.ID, categories)
	return categories, nil
}

// ParseReply extracts the categories from a model reply, a JSON array of
// strings fenced in a ```json block. A leading "Expenses" or "Income" is not a
// category and is dropped.
func ParseReply(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	body, ok := strings.CutPrefix(text, "```json\n")
	if ok {
		body, ok = strings.CutSuffix(body, "\n```")
	}
	if !ok {
		return nil, fmt.Errorf("reply is not a fenced json block: %q", text)
	}
	var categories []string
	if err := json.Unmarshal([]byte(body), &categories); err != nil {
		return nil, fmt.Errorf("reply is not a json array of strings: %w", err)
	}
	if len(categories) > 0 && (categories[0] == "Expenses" || categories[0] == "Income") {
		categories = categories[1:]
	}
	return categories, nil
}

const prompt = `
You are an expert transaction classifier designed to categorize financial transactions into predefined categories and subcategories.

**Input:**

1.  **Category and Subcategory Definitions (JSON):**
Income
` + "```json" + `
{INCOME_JSON}
` + "```" + `

Expenses
` + "```json" + `
{EXPENSES_JSON}
` + "```" + `

2.  **Transaction Description :**
` + "```json" + `
{TRANSACTION_JSON}
` + "```" + `

**Instructions:**

1.  Analyze the provided transaction description.
2.  Match the transaction to the most appropriate category and, if applicable, subcategory from the provided JSON.
3.  If a direct match is found, return a JSON array containing the category and, if relevant, the subcategory. Do not include "Expenses" or "Income", they are not a category.
4.  If the transaction doesn't fit into an existing category, propose a new category in the JSON array, appending "(Suggest)" to the category name(s).
5.  Prioritize existing categories over suggesting new ones. Only suggest category, don't suggest subcategory.
6.  Assume the transaction description may be in French.

**Output (JSON Array)**

`
