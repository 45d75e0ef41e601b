package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/bond-kaneko/go-calc/calc"
	"github.com/bond-kaneko/go-calc/keypad"
)

func TestBatchPlain(t *testing.T) {
	var out bytes.Buffer
	b := &Batch{Engine: calc.New(calc.Options{}), Out: &out}

	script := `# scenarios
7+3=
C 5/0=

C9%
C45<<
`
	if err := b.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run error = %v", err)
	}

	want := "10\n" + calc.ErrorSentinel + "\n0.09\n0\n"
	if got := out.String(); got != want {
		t.Errorf("Output should be %q, got %q", want, got)
	}
}

func TestBatchJSON(t *testing.T) {
	var out bytes.Buffer
	b := &Batch{Engine: calc.New(calc.Options{}), Out: &out, JSON: true}

	if err := b.Line("7+3=4*"); err != nil {
		t.Fatalf("Line error = %v", err)
	}

	doc := out.String()
	if !gjson.Valid(doc) {
		t.Fatalf("Output should be valid JSON, got %q", doc)
	}
	if got := gjson.Get(doc, "display").String(); got != "0" {
		t.Errorf("display should be 0, got %q", got)
	}
	if got := gjson.Get(doc, "expression").String(); got != "104 ×" {
		t.Errorf("expression should be \"104 ×\", got %q", got)
	}
	if got := gjson.Get(doc, "state").String(); got != "pending" {
		t.Errorf("state should be pending, got %q", got)
	}
	if got := gjson.Get(doc, "history.0").String(); got != "7 + 3 = 10" {
		t.Errorf("history.0 should be \"7 + 3 = 10\", got %q", got)
	}
}

func TestBatchUnknownKey(t *testing.T) {
	var out bytes.Buffer
	b := &Batch{Engine: calc.New(calc.Options{}), Out: &out}

	err := b.Run(strings.NewReader("1+1=\n2^3\n"))
	var unknown *keypad.UnknownKeyError
	if !errors.As(err, &unknown) {
		t.Fatalf("Run error should wrap *UnknownKeyError, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Error should name the line, got %v", err)
	}
	if got := out.String(); got != "2\n" {
		t.Errorf("Lines before the error should be printed, got %q", got)
	}
}

func TestSnapshotJSONEmptyHistory(t *testing.T) {
	doc, err := SnapshotJSON(calc.Snapshot{Display: "0"})
	if err != nil {
		t.Fatalf("SnapshotJSON error = %v", err)
	}
	if h := gjson.Get(doc, "history"); !h.IsArray() || len(h.Array()) != 0 {
		t.Errorf("history should be an empty array, got %s", h.Raw)
	}
}
