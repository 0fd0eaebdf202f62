package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `Category,Message
ham,"Go until jurong point, crazy.. Available only in bugis n great world la e buffet..."
ham,Ok lar... Joking wif u oni...
spam,Free entry in 2 a wkly comp to win FA Cup final tkts 21st May 2005.
ham,U dun say so early hor... U c already then say...
spam,"WINNER!! As a valued network customer you have been selected to receivea £900 prize reward!"
`

func TestRead(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleCSV), DefaultColumns)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if ds.Len() != 5 {
		t.Fatalf("expected 5 messages, got %d", ds.Len())
	}

	counts := ds.Counts()
	if counts[Ham] != 3 || counts[Spam] != 2 {
		t.Errorf("unexpected counts: %v", counts)
	}

	if ds.Messages[0].Text != "Go until jurong point, crazy.. Available only in bugis n great world la e buffet..." {
		t.Errorf("quoted field not preserved: %q", ds.Messages[0].Text)
	}

	labels := ds.Labels()
	if labels[2] != Spam {
		t.Errorf("expected third message to be spam, got %v", labels[2])
	}
	if len(ds.Texts()) != ds.Len() {
		t.Error("Texts length mismatch")
	}
}

func TestReadColumnOrderAndCase(t *testing.T) {
	input := "id, message ,CATEGORY\n1,hello there,HAM\n2,win cash now,Spam\n"
	ds, err := Read(strings.NewReader(input), DefaultColumns)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if ds.Messages[0].Text != "hello there" || ds.Messages[1].Category != Spam {
		t.Errorf("unexpected messages: %+v", ds.Messages)
	}
}

func TestReadErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  error
	}{
		{"empty file", "", ErrEmptyDataset},
		{"header only", "Category,Message\n", ErrEmptyDataset},
		{"missing text column", "Category,Body\nham,hi\n", ErrMissingColumn},
		{"missing label column", "Label,Message\nham,hi\n", ErrMissingColumn},
		{"invalid label", "Category,Message\nphish,hi\n", ErrInvalidLabel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.input), DefaultColumns)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestReadShortRow(t *testing.T) {
	_, err := Read(strings.NewReader("Category,Message\nham\n"), DefaultColumns)
	if err == nil {
		t.Fatal("expected error for row without text field")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spam.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(path, DefaultColumns)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Path != path {
		t.Errorf("expected path %s, got %s", path, ds.Path)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultColumns); err == nil {
		t.Error("expected error for unreadable path")
	}
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"ham", " HAM ", "Ham"} {
		if c, err := ParseCategory(s); err != nil || c != Ham {
			t.Errorf("ParseCategory(%q) = %v, %v", s, c, err)
		}
	}
	if c, err := ParseCategory("spam"); err != nil || c != Spam {
		t.Errorf("ParseCategory(spam) = %v, %v", c, err)
	}
	if Spam.String() != "spam" || Ham.String() != "ham" {
		t.Error("unexpected category names")
	}
}
